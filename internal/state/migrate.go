package state

import (
	"math"

	"kakeibo/internal/core"
)

// A transform upgrades a snapshot across one schema version boundary.
// Transforms are pure and idempotent; each applies when the document's
// source version is at or below From and is skipped otherwise. Adding
// schema version N+1 means appending one entry here.
type transform struct {
	Name  string
	From  int
	Apply func(Snapshot) Snapshot
}

var transforms = []transform{
	{Name: "prune-demo-transactions", From: 1, Apply: pruneDemoTransactions},
	{Name: "allocation-to-planned-amount", From: 2, Apply: allocationToPlannedAmount},
}

// Migrate brings a decoded snapshot up to CurrentSchemaVersion by
// running the version-gated transforms in ascending order. It never
// fails: malformed data was already defaulted by Decode, and the result
// always carries the current version even when zero transforms ran.
func Migrate(s Snapshot) Snapshot {
	from := s.SchemaVersion
	if from < 1 {
		from = 1
	}
	for _, t := range transforms {
		if from <= t.From {
			s = t.Apply(s)
		}
	}
	s.SchemaVersion = CurrentSchemaVersion
	return s
}

// The original seed data shipped demo transactions without any stable
// marker, so pruning matches on the full signature: note text, amount,
// and the absence of a category. Anything not matching all three fields
// is preserved untouched.
var demoSignatures = []struct {
	Note   string
	Amount int64
}{
	{Note: "Coffee", Amount: 1200},
	{Note: "Groceries", Amount: 4500},
	{Note: "Dining", Amount: 18000},
}

func isDemoTransaction(t Transaction) bool {
	if t.CategoryID != nil {
		return false
	}
	for _, sig := range demoSignatures {
		if t.Note == sig.Note && t.Amount == sig.Amount {
			return true
		}
	}
	return false
}

func pruneDemoTransactions(s Snapshot) Snapshot {
	if len(s.Transactions) == 0 {
		return s
	}
	kept := make([]Transaction, 0, len(s.Transactions))
	for _, t := range s.Transactions {
		if isDemoTransaction(t) {
			continue
		}
		kept = append(kept, t)
	}
	s.Transactions = kept
	return s
}

// allocationToPlannedAmount converts the legacy percent-of-income
// allocation into an absolute planned amount. Categories already
// carrying a planned amount are left as they are (no double
// conversion); the legacy field is dropped in every case since the
// emitted shape has no room for it.
func allocationToPlannedAmount(s Snapshot) Snapshot {
	if len(s.Categories) == 0 {
		return s
	}
	// Work on a copy: the caller's pre-migration snapshot must survive
	// untouched, and the input slice aliases its backing array.
	cats := append([]Category(nil), s.Categories...)
	for i, c := range cats {
		if c.Allocation != nil && c.PlannedAmount == nil {
			pct := core.ClampPercent(*c.Allocation)
			planned := int64(math.Round(pct / 100 * float64(s.Income.Amount)))
			cats[i].PlannedAmount = &planned
		}
		cats[i].Allocation = nil
	}
	s.Categories = cats
	return s
}
