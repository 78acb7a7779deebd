package core

import (
	"math"
	"sort"
)

// UncategorizedID is the reserved bucket id for transactions without a
// category. It must never collide with a real category id.
const UncategorizedID = "__uncategorized__"

const (
	uncategorizedName = "Uncategorized"
	unknownName       = "Unknown"
)

// AggregationEntry is one bucket of a period aggregation: a real
// category, the uncategorized bucket, or a dangling-reference bucket.
// Derived, never stored.
type AggregationEntry struct {
	BucketID        string
	Name            string
	Total           Money
	PercentOfIncome int
}

// GroupByCategory buckets the transactions that fall inside period
// (start-inclusive, end-exclusive) by category id and sums their
// amounts. Transactions without a category accumulate under
// UncategorizedID; a transaction referencing a category id not present
// in categories keeps its amount under that id with the name resolved
// to "Unknown" rather than being dropped. Categories with no matching
// transactions are omitted.
//
// Entries are returned sorted by total descending, bucket id ascending
// on ties; correctness is defined by the (bucket, total) multiset and
// callers may re-sort for display.
func GroupByCategory(categories []Category, transactions []Transaction, period BudgetPeriod) []AggregationEntry {
	totals := make(map[string]int64)
	for _, t := range transactions {
		if !period.Contains(t.OccurredAt) {
			continue
		}
		id := t.CategoryID
		if id == "" {
			id = UncategorizedID
		}
		totals[id] += t.Amount.Yen
	}

	names := make(map[string]string, len(categories)+1)
	names[UncategorizedID] = uncategorizedName
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	entries := make([]AggregationEntry, 0, len(totals))
	for id, total := range totals {
		name, ok := names[id]
		if !ok {
			name = unknownName
		}
		entries = append(entries, AggregationEntry{
			BucketID: id,
			Name:     name,
			Total:    Money{Yen: total},
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Total.Yen != entries[j].Total.Yen {
			return entries[i].Total.Yen > entries[j].Total.Yen
		}
		return entries[i].BucketID < entries[j].BucketID
	})
	return entries
}

// PercentOfIncome returns the bucket total as a rounded percentage of
// monthly income. Income of zero or below is floored to 1 so the result
// is a defined (if large) percentage rather than a division fault.
func PercentOfIncome(total, income Money) int {
	base := income.Yen
	if base < 1 {
		base = 1
	}
	return int(math.Round(float64(total.Yen) / float64(base) * 100))
}

// PlannedBreakdown returns the non-archived categories carrying a
// positive planned amount. This is a planning view independent of
// actual spend, not an aggregation over transactions.
func PlannedBreakdown(categories []Category) []AggregationEntry {
	var entries []AggregationEntry
	for _, c := range categories {
		if c.IsArchived || c.PlannedAmount.Yen <= 0 {
			continue
		}
		entries = append(entries, AggregationEntry{
			BucketID: c.ID,
			Name:     c.Name,
			Total:    c.PlannedAmount,
		})
	}
	return entries
}

// TotalSpent sums the amounts of all transactions inside the period.
func TotalSpent(transactions []Transaction, period BudgetPeriod) Money {
	var sum int64
	for _, t := range transactions {
		if period.Contains(t.OccurredAt) {
			sum += t.Amount.Yen
		}
	}
	return Money{Yen: sum}
}

// AvailableIncome is the income counted toward this month: the full
// amount once the paycheck has landed, zero before.
func AvailableIncome(income Money, landed bool) Money {
	if !landed {
		return Money{}
	}
	return income
}

// ProjectedSavings is available income minus period spend. Negative
// when spending outruns the landed income.
func ProjectedSavings(available, totalSpent Money) Money {
	return Money{Yen: available.Yen - totalSpent.Yen}
}
