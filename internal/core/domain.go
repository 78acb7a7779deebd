package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is an amount of Japanese yen. Yen has no minor unit, so the
	// stored integer is the display value.
	Money struct {
		Yen int64
	}

	Account struct {
		CurrentBalance Money
	}

	// Income describes the monthly paycheck. Payday is the nominal
	// day-of-month as entered by the user (1-31) and may exceed the
	// length of a given month; it is clamped at period-computation time,
	// never in the stored value.
	Income struct {
		Amount   Money
		Payday   int
		Timezone string
	}

	Category struct {
		ID         string
		Name       string
		IsArchived bool
		// PlannedAmount is the budgeted yen for the category. Zero means
		// no plan has been set.
		PlannedAmount Money
	}

	Transaction struct {
		ID string
		// CategoryID is empty for uncategorized transactions. It may
		// reference a category that no longer exists; aggregation
		// resolves those to an "Unknown" bucket instead of failing.
		CategoryID string
		Amount     Money
		OccurredAt time.Time
		Note       string
	}
)

var (
	ErrInvalidPayday  = errors.New("payday must be between 1 and 31")
	ErrInvalidAmount  = errors.New("amount must be greater than zero")
	ErrEmptyName      = errors.New("name is required")
	ErrZeroOccurredAt = errors.New("transaction date is required")
	ErrNoteTooLong    = errors.New("note too long (max 200 characters)")
	ErrPlanOverBudget = errors.New("planned amounts exceed monthly income")
)

// ValidatePayday checks the nominal payday entered by the user.
// The period calculator clamps out-of-range values anyway, but they
// are rejected at the input boundary before being stored.
func ValidatePayday(day int) error {
	if day < 1 || day > 31 {
		return ErrInvalidPayday
	}
	return nil
}

func (m Money) Validate() error {
	if m.Yen <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.PlannedAmount.Yen < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.OccurredAt.IsZero() {
		return ErrZeroOccurredAt
	}
	if len(t.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

func (in Income) Validate() error {
	if in.Amount.Yen < 0 {
		return ErrInvalidAmount
	}
	return ValidatePayday(in.Payday)
}

// ValidateCategoryPlan rejects a plan whose non-archived planned amounts
// sum to more than the monthly income. It gates saving the category
// list, never individual transaction inserts.
func ValidateCategoryPlan(categories []Category, income Money) error {
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	var planned int64
	for _, c := range categories {
		if c.IsArchived {
			continue
		}
		planned += c.PlannedAmount.Yen
	}
	if planned > income.Yen {
		return ErrPlanOverBudget
	}
	return nil
}
