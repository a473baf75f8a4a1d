package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newParser(t *testing.T, body, contentType string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return NewRequestBodyParser(httptest.NewRecorder(), req)
}

func TestRequestBodyParser_JSON(t *testing.T) {
	parser := newParser(t, ` {"id": "123", "name": "  test ", "amount": 42.5, "export": true, "note": null}`, "application/json")
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if parser.jsonData == nil {
		t.Error("body not parsed as JSON")
	}

	tests := []struct {
		key  string
		want string
	}{
		{"id", "123"},
		{"name", "test"},
		{"amount", "42.5"},
		{"export", "true"},
		{"note", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		if got := parser.Get(tt.key); got != tt.want {
			t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
	if !parser.Bool("export") {
		t.Error("Bool(export) = false, want true")
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	parser := newParser(t, "id=456&name=form+test&export=on", "application/x-www-form-urlencoded")
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if parser.jsonData != nil {
		t.Error("form body parsed as JSON")
	}
	if id := parser.Get("id"); id != "456" {
		t.Errorf("Get('id') = %q, want '456'", id)
	}
	if name := parser.Get("name"); name != "form test" {
		t.Errorf("Get('name') = %q, want 'form test'", name)
	}
	if !parser.Bool("export") {
		t.Error("Bool(export) = false, want true")
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	parser := newParser(t, "", "")
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if val := parser.Get("nonexistent"); val != "" {
		t.Errorf("Get('nonexistent') = %q, want empty string", val)
	}
	if parser.Bool("export") {
		t.Error("Bool(export) = true on empty body")
	}
}

func TestRequestBodyParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"truncated json", `{"title":`},
		{"bad escape in form", "title=%zz"},
		{"oversized body", "title=" + strings.Repeat("a", maxBodyBytes)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := newParser(t, tt.body, "")
			if err := parser.Parse(); err == nil {
				t.Error("Parse() error = nil, want failure")
			}
			// The first result sticks.
			if err := parser.Parse(); err == nil {
				t.Error("second Parse() error = nil")
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b\x07c", "abc"},
		{"line\nbreak", "line\nbreak"},
		{"tab\tkept", "tab\tkept"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.raw)
			req := httptest.NewRequest(http.MethodDelete, "/x", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			got, err := ParseID(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errInvalidID) {
				t.Errorf("ParseID() error = %v, want errInvalidID", err)
			}
			if got != tt.want {
				t.Errorf("ParseID() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 100},
		{"limit=10", 10},
		{"limit=0", 100},
		{"limit=abc", 100},
		{"limit=9999", 500},
	}
	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := ParseLimit(q, 100, 500); got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
