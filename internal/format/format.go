// Package format renders money, percentages and dates for display.
//
// A Formatter is built once from FormattingConfig and passed to whoever needs
// it. There is no package level locale.
package format

import (
	"fmt"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"finlytics/internal/core"
)

const (
	DefaultLocale   = "en-IN"
	DefaultCurrency = "INR"
)

type FormattingConfig struct {
	Locale       string
	CurrencyCode string
}

// Formatter is safe for concurrent use.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
}

// New parses the locale tag and ISO currency code. Empty fields take the
// defaults.
func New(cfg FormattingConfig) (*Formatter, error) {
	locale := cfg.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	code := cfg.CurrencyCode
	if code == "" {
		code = DefaultCurrency
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("parse currency %q: %w", code, err)
	}

	return &Formatter{
		unit:    unit,
		printer: message.NewPrinter(tag),
	}, nil
}

// Default returns the en-IN / INR formatter.
func Default() *Formatter {
	f, _ := New(FormattingConfig{})
	return f
}

func (f *Formatter) Currency() string {
	return f.unit.String()
}

// Money renders v with the currency symbol and locale grouping, e.g.
// "₹ 1,25,000.00".
func (f *Formatter) Money(v float64) string {
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(core.Round2(v))))
}

// Percent renders v with one decimal, e.g. "12.5%".
func (f *Formatter) Percent(v float64) string {
	return f.printer.Sprintf("%.1f%%", core.SafeAmount(v))
}

// MonthLabel renders "Jan 2006". Month names are not localized.
func (f *Formatter) MonthLabel(t time.Time) string {
	return t.Format("Jan 2006")
}

func (f *Formatter) Date(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("02 Jan 2006")
}

// Snapshot is the display form of a FinancialSnapshot.
type Snapshot struct {
	MonthlyIncome         string `json:"monthlyIncome"`
	MonthlyExpenses       string `json:"monthlyExpenses"`
	MonthlySavings        string `json:"monthlySavings"`
	SafeUpfrontLimit      string `json:"safeUpfrontLimit"`
	SafeMonthlyAllocation string `json:"safeMonthlyAllocation"`
	AvailableForPurchase  string `json:"availableForPurchase"`
	LastUpdated           string `json:"lastUpdated"`
}

func (f *Formatter) Snapshot(s core.FinancialSnapshot) Snapshot {
	return Snapshot{
		MonthlyIncome:         f.Money(s.MonthlyIncome),
		MonthlyExpenses:       f.Money(s.MonthlyExpenses),
		MonthlySavings:        f.Money(s.MonthlySavings),
		SafeUpfrontLimit:      f.Money(s.SafeUpfrontLimit),
		SafeMonthlyAllocation: f.Money(s.SafeMonthlyAllocation),
		AvailableForPurchase:  f.Money(s.AvailableForPurchase),
		LastUpdated:           f.Date(core.DateOf(s.LastUpdated)),
	}
}

// TrendChange renders the projected change of a trend summary, or "" when
// there is no history to compare.
func (f *Formatter) TrendChange(t *core.TrendSummary) string {
	if t == nil {
		return ""
	}
	return f.Percent(t.ProjectedChangePct)
}
