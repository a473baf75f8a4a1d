package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Weekly     BillingCycle = "Weekly"
	Monthly    BillingCycle = "Monthly"
	Quarterly  BillingCycle = "Quarterly"
	Semiannual BillingCycle = "Semiannual"
	Yearly     BillingCycle = "Yearly"
)

const (
	DefaultTransactionCategory  = "Uncategorized"
	DefaultSubscriptionCategory = "Subscriptions"
	DefaultSavingCategory       = "General"
	OtherCategory               = "Other"
)

const dateLayout = "2006-01-02"

type (
	TransactionType string

	BillingCycle string

	// Date is a calendar day. The time part is always midnight UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID         int64           `json:"id"`
		Title      string          `json:"title"`
		Category   string          `json:"category"`
		Type       TransactionType `json:"type"`
		Amount     float64         `json:"amount"`
		OccurredAt Date            `json:"occurredAt"`
		Notes      string          `json:"notes,omitempty"`
		CreatedAt  time.Time       `json:"createdAt"`
	}

	Subscription struct {
		ID              int64        `json:"id"`
		Name            string       `json:"name"`
		Category        string       `json:"category"`
		Amount          float64      `json:"amount"`
		BillingCycle    BillingCycle `json:"billingCycle"`
		NextBillingDate Date         `json:"nextBillingDate"`
		Notes           string       `json:"notes,omitempty"`
		CreatedAt       time.Time    `json:"createdAt"`
	}

	UserProfile struct {
		ID            int64     `json:"id"`
		FullName      string    `json:"fullName"`
		DateOfBirth   Date      `json:"dateOfBirth"`
		MonthlyIncome float64   `json:"monthlyIncome"`
		CreatedAt     time.Time `json:"createdAt"`
	}

	Report struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		ReportType  string    `json:"type"`
		FileFormat  string    `json:"format"`
		PeriodStart Date      `json:"periodStart"`
		PeriodEnd   Date      `json:"periodEnd"`
		Summary     string    `json:"summary"`
		GeneratedAt time.Time `json:"generatedAt"`
	}
)

var (
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidPurchaseAmount = errors.New("purchase amount must be greater than zero")
	ErrUnknownPlan           = errors.New("unknown payment plan")
	ErrUnknownBillingCycle   = errors.New("unknown billing cycle")
)

// ValidationError carries a message that is safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses YYYY-MM-DD. Anything after the day (a time part) is ignored.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseTransactionType lower-cases s and reports whether it names a known type.
func ParseTransactionType(s string) (TransactionType, bool) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}

func (t TransactionType) IsValid() bool {
	switch t {
	case Income, Expense, Transfer:
		return true
	default:
		return false
	}
}

// ParseBillingCycle is case-insensitive and accepts "Annual" for Yearly.
func ParseBillingCycle(s string) (BillingCycle, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weekly":
		return Weekly, true
	case "monthly":
		return Monthly, true
	case "quarterly":
		return Quarterly, true
	case "semiannual", "semi-annual", "half-yearly":
		return Semiannual, true
	case "yearly", "annual", "annually":
		return Yearly, true
	default:
		return "", false
	}
}

func (c BillingCycle) IsValid() bool {
	_, ok := ParseBillingCycle(string(c))
	return ok
}

// BillingCycles lists the supported cycles from shortest to longest.
func BillingCycles() []BillingCycle {
	return []BillingCycle{Weekly, Monthly, Quarterly, Semiannual, Yearly}
}
