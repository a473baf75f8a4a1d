package core

import (
	"strings"
	"time"
)

// ProfileInput is raw user input for the single profile row.
type ProfileInput struct {
	FullName      string
	DateOfBirth   string
	MonthlyIncome string
}

// NewUserProfile trims and validates input against now.
func NewUserProfile(in ProfileInput, now time.Time) (UserProfile, error) {
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return UserProfile{}, invalid("fullName", "Please enter your name.")
	}
	dob := strings.TrimSpace(in.DateOfBirth)
	if dob == "" {
		return UserProfile{}, invalid("dateOfBirth", "Please select your date of birth.")
	}
	date, err := ParseDate(dob)
	if err != nil {
		return UserProfile{}, invalid("dateOfBirth", "Provide a valid date of birth.")
	}

	p := UserProfile{
		FullName:      name,
		DateOfBirth:   date,
		MonthlyIncome: ParseAmount(in.MonthlyIncome),
	}
	if err := p.Validate(now); err != nil {
		return UserProfile{}, err
	}
	return p, nil
}

// Validate checks a profile against now. The date of birth may be today but
// not later.
func (p UserProfile) Validate(now time.Time) error {
	if strings.TrimSpace(p.FullName) == "" {
		return invalid("fullName", "Please enter your name.")
	}
	if p.DateOfBirth.IsZero() {
		return invalid("dateOfBirth", "Please select your date of birth.")
	}
	if p.DateOfBirth.After(DateOf(now).Time) {
		return invalid("dateOfBirth", "Date of birth cannot be in the future.")
	}
	if !(p.MonthlyIncome > 0) {
		return invalid("monthlyIncome", "Enter a monthly income greater than zero.")
	}
	return nil
}

// BaselineIncome is the most recent non-zero monthly income in history. With
// no recorded income it falls back to the profile's declared income, or 0
// without a profile.
func BaselineIncome(history []MonthBucket, profile *UserProfile) float64 {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Income > 0 {
			return history[i].Income
		}
	}
	if profile != nil {
		return Round2(profile.MonthlyIncome)
	}
	return 0
}
