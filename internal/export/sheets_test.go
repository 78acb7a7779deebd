package export

import (
	"testing"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/services"
)

func TestDashboardRows(t *testing.T) {
	start := time.Date(2025, 4, 27, 0, 0, 0, 0, core.ReferenceLocation())
	d := services.Dashboard{
		Period: core.BudgetPeriod{
			Start: start,
			End:   start.AddDate(0, 1, 0),
		},
		TotalSpent:      core.Money{Yen: 5700},
		AvailableIncome: core.Money{Yen: 200000},
		Spending: []core.AggregationEntry{
			{BucketID: "food", Name: "Food", Total: core.Money{Yen: 4500}, PercentOfIncome: 2},
			{BucketID: core.UncategorizedID, Name: "Uncategorized", Total: core.Money{Yen: 1200}, PercentOfIncome: 1},
		},
	}

	rows := dashboardRows(d)

	// Header, column row, two buckets, total, available.
	if len(rows) != 6 {
		t.Fatalf("rows = %d, want 6", len(rows))
	}
	if rows[0][1] != "2025-04-27" {
		t.Errorf("period start cell = %v", rows[0][1])
	}
	if rows[2][0] != "Food" || rows[2][1] != int64(4500) {
		t.Errorf("first bucket row = %v", rows[2])
	}
	if rows[4][1] != int64(5700) {
		t.Errorf("total row = %v", rows[4])
	}
}
