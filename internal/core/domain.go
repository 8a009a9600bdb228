package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// DateLayout is the calendar date format used for storage and JSON.
const DateLayout = "2006-01-02"

// MaxDescriptionLength bounds a description, in characters.
const MaxDescriptionLength = 200

type (
	// Kind tells income and expense transactions apart. Amounts are always
	// positive; the sign is derived from the kind.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          int64 // Assigned by the store
		Kind        Kind
		Category    string
		Amount      Money
		Date        Date
		Description string // Optional
	}
)

// ErrInvalidArgument is the class of every precondition violation in core.
// Use errors.Is(err, ErrInvalidArgument) to detect it.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrInvalidDay      = fmt.Errorf("%w: invalid day", ErrInvalidArgument)
	ErrInvalidMonth    = fmt.Errorf("%w: month must be between 1 and 12", ErrInvalidArgument)
	ErrInvalidDate     = fmt.Errorf("%w: invalid date", ErrInvalidArgument)
	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrInvalidArgument)
	ErrInvalidKind     = fmt.Errorf("%w: kind must be income or expense", ErrInvalidArgument)
	ErrEmptyCategory   = fmt.Errorf("%w: empty category", ErrInvalidArgument)
	ErrDescriptionSize = fmt.Errorf("%w: description too long (max %d characters)", ErrInvalidArgument, MaxDescriptionLength)
)

// ParseKind accepts "income" or "expense" in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (k Kind) String() string {
	return string(k)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. Time of day is never kept.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

func (d Date) MarshalJSON() ([]byte, error) {
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

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescriptionSize
	}
	return nil
}

// Signed returns the amount in cents with the sign implied by the kind.
func (t Transaction) Signed() int64 {
	if t.Kind == Expense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}
