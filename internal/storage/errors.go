package storage

import (
	"errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var ErrNotFound = errors.New("record not found")

// User-facing messages for the SQLite primary result codes.
const (
	msgConstraint = "Constraint failed. Check for duplicate or invalid data."
	msgBusy       = "Database is busy. Please retry in a moment."
	msgReadOnly   = "Database is read-only. Adjust file permissions."
	msgQuery      = "Database query error. Review the SQL statement."
	msgUnexpected = "Unexpected error."
)

// NormalizeError turns a store error into a message fit for an API response.
// Extended result codes are reduced to their primary code first. Anything
// else gets a generic message so internal detail never reaches a client.
func NormalizeError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotFound) {
		return "Record not found."
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return msgConstraint
		case sqlite3.SQLITE_BUSY:
			return msgBusy
		case sqlite3.SQLITE_READONLY:
			return msgReadOnly
		case sqlite3.SQLITE_ERROR:
			return msgQuery
		}
	}
	return msgUnexpected
}
