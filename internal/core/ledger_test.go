package core

import (
	"testing"
	"time"
)

func testPeriod() BudgetPeriod {
	return BudgetPeriod{
		Start: jstDate(2025, time.April, 27, 0, 0),
		End:   jstDate(2025, time.May, 27, 0, 0),
	}
}

func TestGroupByCategoryBoundaries(t *testing.T) {
	period := testPeriod()
	txs := []Transaction{
		{ID: "a", Amount: Money{Yen: 1200}, OccurredAt: period.Start},
		{ID: "b", Amount: Money{Yen: 4500}, OccurredAt: period.End.Add(-time.Millisecond)},
		{ID: "c", Amount: Money{Yen: 999}, OccurredAt: period.End},
	}

	entries := GroupByCategory(nil, txs, period)
	if len(entries) != 1 {
		t.Fatalf("expected a single uncategorized bucket, got %d", len(entries))
	}
	e := entries[0]
	if e.BucketID != UncategorizedID {
		t.Errorf("bucket id = %q, want %q", e.BucketID, UncategorizedID)
	}
	if e.Name != "Uncategorized" {
		t.Errorf("bucket name = %q, want Uncategorized", e.Name)
	}
	if e.Total.Yen != 5700 {
		t.Errorf("total = %d, want 5700 (end-exclusive)", e.Total.Yen)
	}
}

func TestGroupByCategoryBuckets(t *testing.T) {
	period := testPeriod()
	cats := []Category{
		{ID: "food", Name: "Food"},
		{ID: "rent", Name: "Rent"},
		{ID: "idle", Name: "Idle"},
	}
	txs := []Transaction{
		{ID: "1", CategoryID: "food", Amount: Money{Yen: 800}, OccurredAt: period.Start.AddDate(0, 0, 1)},
		{ID: "2", CategoryID: "food", Amount: Money{Yen: 200}, OccurredAt: period.Start.AddDate(0, 0, 2)},
		{ID: "3", CategoryID: "rent", Amount: Money{Yen: 70000}, OccurredAt: period.Start.AddDate(0, 0, 3)},
		{ID: "4", CategoryID: "ghost", Amount: Money{Yen: 500}, OccurredAt: period.Start.AddDate(0, 0, 4)},
		{ID: "5", Amount: Money{Yen: 300}, OccurredAt: period.Start.AddDate(0, 0, 5)},
		{ID: "6", CategoryID: "food", Amount: Money{Yen: 9999}, OccurredAt: period.End.AddDate(0, 0, 1)},
	}

	entries := GroupByCategory(cats, txs, period)

	got := map[string]AggregationEntry{}
	for _, e := range entries {
		got[e.BucketID] = e
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 buckets, got %d (%v)", len(got), entries)
	}
	if e := got["food"]; e.Total.Yen != 1000 || e.Name != "Food" {
		t.Errorf("food bucket = %+v", e)
	}
	if e := got["rent"]; e.Total.Yen != 70000 {
		t.Errorf("rent bucket = %+v", e)
	}
	// Dangling reference: amount kept under its id, name falls back.
	if e := got["ghost"]; e.Total.Yen != 500 || e.Name != "Unknown" {
		t.Errorf("ghost bucket = %+v", e)
	}
	if e := got[UncategorizedID]; e.Total.Yen != 300 {
		t.Errorf("uncategorized bucket = %+v", e)
	}
	// Category with no transactions is omitted.
	if _, ok := got["idle"]; ok {
		t.Error("zero-spend category should be omitted")
	}

	// Bucket totals account for exactly the in-period amounts.
	var sum int64
	for _, e := range entries {
		sum += e.Total.Yen
	}
	if want := TotalSpent(txs, period).Yen; sum != want {
		t.Errorf("entry sum %d != period total %d", sum, want)
	}

	// Deterministic order: total desc, id asc.
	for i := 1; i < len(entries); i++ {
		a, b := entries[i-1], entries[i]
		if a.Total.Yen < b.Total.Yen {
			t.Fatalf("entries not sorted by total desc: %v", entries)
		}
		if a.Total.Yen == b.Total.Yen && a.BucketID > b.BucketID {
			t.Fatalf("tie not broken by id asc: %v", entries)
		}
	}
}

func TestPercentOfIncome(t *testing.T) {
	tests := []struct {
		name   string
		total  int64
		income int64
		want   int
	}{
		{"half", 100000, 200000, 50},
		{"rounds half up", 1000, 160000, 1},
		{"rounds down", 999, 200000, 0},
		{"zero income floors to 1", 50000, 0, 5000000},
		{"negative income floors to 1", 100, -5, 10000},
		{"over income", 250000, 200000, 125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentOfIncome(Money{Yen: tt.total}, Money{Yen: tt.income})
			if got != tt.want {
				t.Errorf("PercentOfIncome(%d, %d) = %d, want %d", tt.total, tt.income, got, tt.want)
			}
		})
	}
}

func TestPlannedBreakdown(t *testing.T) {
	cats := []Category{
		{ID: "a", Name: "Food", PlannedAmount: Money{Yen: 40000}},
		{ID: "b", Name: "Rent", PlannedAmount: Money{Yen: 70000}, IsArchived: true},
		{ID: "c", Name: "Misc"},
		{ID: "d", Name: "Fun", PlannedAmount: Money{Yen: 10000}},
	}
	entries := PlannedBreakdown(cats)
	if len(entries) != 2 {
		t.Fatalf("expected 2 planned entries, got %d", len(entries))
	}
	if entries[0].BucketID != "a" || entries[0].Total.Yen != 40000 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].BucketID != "d" || entries[1].Total.Yen != 10000 {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}

func TestAvailableIncome(t *testing.T) {
	income := Money{Yen: 200000}
	if got := AvailableIncome(income, true); got.Yen != 200000 {
		t.Errorf("landed income = %d", got.Yen)
	}
	if got := AvailableIncome(income, false); got.Yen != 0 {
		t.Errorf("unlanded income = %d", got.Yen)
	}
}

func TestProjectedSavings(t *testing.T) {
	if got := ProjectedSavings(Money{Yen: 200000}, Money{Yen: 45000}); got.Yen != 155000 {
		t.Errorf("savings = %d, want 155000", got.Yen)
	}
	if got := ProjectedSavings(Money{}, Money{Yen: 5700}); got.Yen != -5700 {
		t.Errorf("savings before landing = %d, want -5700", got.Yen)
	}
}
