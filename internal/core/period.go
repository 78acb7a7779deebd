package core

import "time"

// ReferenceTimezone is the single fixed timezone all instants are
// normalized to before comparison. The budget belongs to a household in
// Japan; JST has no daylight-saving transitions.
const ReferenceTimezone = "Asia/Tokyo"

var jst = loadReferenceLocation()

func loadReferenceLocation() *time.Location {
	loc, err := time.LoadLocation(ReferenceTimezone)
	if err != nil {
		// Hosts without tzdata still get the correct fixed offset.
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// ReferenceLocation returns the fixed reference timezone.
func ReferenceLocation() *time.Location {
	return jst
}

// Clock supplies the current instant in the reference timezone.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().In(jst)
}

// BudgetPeriod is the half-open interval between two consecutive
// effective paydays: Start inclusive, End exclusive. It is derived,
// never stored.
type BudgetPeriod struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period. An instant
// exactly at a boundary belongs to the period that starts there, not
// the one that ends there.
func (p BudgetPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, jst).Day()
}

// EffectivePayday resolves the nominal payday to a concrete day within
// the month containing ref, at start-of-day JST. A payday beyond the
// month's length clamps to its last day; values below 1 clamp to 1 even
// though upstream validation should have rejected them.
func EffectivePayday(payday int, ref time.Time) time.Time {
	ref = ref.In(jst)
	year, month, _ := ref.Date()
	day := payday
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(year, month, day, 0, 0, 0, 0, jst)
}

// HasIncomeLanded reports whether this calendar month's paycheck has
// arrived at ref. This is a same-month test and deliberately distinct
// from the rolling budget-period window: just after a month boundary
// but before that month's payday, the budget period is still anchored
// to last month's payday while this already evaluates the new month.
func HasIncomeLanded(payday int, ref time.Time) bool {
	return !ref.In(jst).Before(EffectivePayday(payday, ref))
}

// StartOfBudgetPeriod returns the most recent effective payday at or
// before ref. When ref falls before this month's effective payday the
// start is last month's effective payday, resolved against that month's
// own length rather than by subtracting a fixed day count.
func StartOfBudgetPeriod(payday int, ref time.Time) time.Time {
	ref = ref.In(jst)
	this := EffectivePayday(payday, ref)
	if ref.Before(this) {
		year, month, _ := ref.Date()
		return EffectivePayday(payday, time.Date(year, month-1, 1, 0, 0, 0, 0, jst))
	}
	return this
}

// NextBudgetPeriodStart returns the effective payday of the calendar
// month immediately following the current period's start month.
func NextBudgetPeriodStart(payday int, ref time.Time) time.Time {
	start := StartOfBudgetPeriod(payday, ref)
	year, month, _ := start.Date()
	return EffectivePayday(payday, time.Date(year, month+1, 1, 0, 0, 0, 0, jst))
}

// PeriodContaining returns the budget period that ref falls into.
// Periods tile the timeline: every period's end is the next period's
// start, with no gaps and no overlaps.
func PeriodContaining(payday int, ref time.Time) BudgetPeriod {
	return BudgetPeriod{
		Start: StartOfBudgetPeriod(payday, ref),
		End:   NextBudgetPeriodStart(payday, ref),
	}
}
