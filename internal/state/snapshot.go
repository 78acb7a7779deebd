// Package state defines the persisted ledger document and the schema
// migration pipeline that brings any historical version of it up to
// date before the rest of the system reads it.
package state

import (
	"encoding/json"
	"time"

	"kakeibo/internal/core"
)

// CurrentSchemaVersion is the version this package emits.
//
// History:
//
//	1: initial shape; categories carried an "allocation" percent and
//	   seeded demo transactions were present
//	2: demo transactions pruned
//	3: "allocation" replaced by "plannedAmount" in absolute yen
const CurrentSchemaVersion = 3

type (
	// Snapshot is the unit of persistence and of migration. Field shapes
	// mirror the on-disk JSON document.
	Snapshot struct {
		SchemaVersion int           `json:"schemaVersion"`
		Account       Account       `json:"account"`
		Income        Income        `json:"income"`
		Categories    []Category    `json:"categories"`
		Transactions  []Transaction `json:"transactions"`
	}

	Account struct {
		CurrentBalance int64 `json:"currentBalance"`
	}

	Income struct {
		Amount   int64  `json:"amount"`
		Payday   int    `json:"payday"`
		Timezone string `json:"timezone"`
	}

	Category struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		IsArchived    bool   `json:"isArchived"`
		PlannedAmount *int64 `json:"plannedAmount,omitempty"`
		// Allocation is the legacy percent-of-income field carried by
		// schema versions 1 and 2. The v2->v3 transform converts and
		// drops it; it never survives a load.
		Allocation *float64 `json:"allocation,omitempty"`
	}

	Transaction struct {
		ID         string  `json:"id"`
		CategoryID *string `json:"categoryId,omitempty"`
		Amount     int64   `json:"amount"`
		OccurredAt string  `json:"occurredAt"`
		Note       string  `json:"note,omitempty"`
	}
)

// LedgerState is the core-typed view of a snapshot, handed to the pure
// calculators after migration.
type LedgerState struct {
	Account      core.Account
	Income       core.Income
	Categories   []core.Category
	Transactions []core.Transaction
}

// DefaultIncome mirrors the seed the original household started from.
func DefaultIncome() Income {
	return Income{Amount: 200000, Payday: 27, Timezone: core.ReferenceTimezone}
}

// Decode parses a raw persisted document permissively: missing or
// wrong-shaped substructures default instead of failing, so a corrupted
// or partially-written document still yields a usable state. Strict
// validation applies only to new user input, never at load.
func Decode(raw []byte) Snapshot {
	var doc struct {
		SchemaVersion json.RawMessage `json:"schemaVersion"`
		Account       json.RawMessage `json:"account"`
		Income        json.RawMessage `json:"income"`
		Categories    json.RawMessage `json:"categories"`
		Transactions  json.RawMessage `json:"transactions"`
	}
	snap := Snapshot{SchemaVersion: 1, Income: DefaultIncome()}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return snap
	}
	if doc.SchemaVersion != nil {
		var v int
		if err := json.Unmarshal(doc.SchemaVersion, &v); err == nil {
			snap.SchemaVersion = v
		}
	}
	if doc.Account != nil {
		var a Account
		if err := json.Unmarshal(doc.Account, &a); err == nil {
			snap.Account = a
		}
	}
	if doc.Income != nil {
		var in Income
		if err := json.Unmarshal(doc.Income, &in); err == nil {
			snap.Income = in
		}
	}
	if doc.Categories != nil {
		var cs []Category
		if err := json.Unmarshal(doc.Categories, &cs); err == nil {
			snap.Categories = cs
		}
	}
	if doc.Transactions != nil {
		var ts []Transaction
		if err := json.Unmarshal(doc.Transactions, &ts); err == nil {
			snap.Transactions = ts
		}
	}
	if snap.Income.Timezone == "" {
		snap.Income.Timezone = core.ReferenceTimezone
	}
	return snap
}

// Encode renders the snapshot as the persisted JSON document.
func Encode(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// ToDomain converts a migrated snapshot into core types. An occurredAt
// string that does not parse becomes the zero instant: the transaction
// is preserved but falls outside every budget period.
func (s Snapshot) ToDomain() LedgerState {
	ls := LedgerState{
		Account: core.Account{CurrentBalance: core.Money{Yen: s.Account.CurrentBalance}},
		Income: core.Income{
			Amount:   core.Money{Yen: s.Income.Amount},
			Payday:   s.Income.Payday,
			Timezone: s.Income.Timezone,
		},
	}
	for _, c := range s.Categories {
		var planned int64
		if c.PlannedAmount != nil {
			planned = *c.PlannedAmount
		}
		ls.Categories = append(ls.Categories, core.Category{
			ID:            c.ID,
			Name:          c.Name,
			IsArchived:    c.IsArchived,
			PlannedAmount: core.Money{Yen: planned},
		})
	}
	for _, t := range s.Transactions {
		var categoryID string
		if t.CategoryID != nil {
			categoryID = *t.CategoryID
		}
		ls.Transactions = append(ls.Transactions, core.Transaction{
			ID:         t.ID,
			CategoryID: categoryID,
			Amount:     core.Money{Yen: t.Amount},
			OccurredAt: parseInstant(t.OccurredAt),
			Note:       t.Note,
		})
	}
	return ls
}

// FromDomain builds a current-version snapshot from core types.
func FromDomain(ls LedgerState) Snapshot {
	snap := Snapshot{
		SchemaVersion: CurrentSchemaVersion,
		Account:       Account{CurrentBalance: ls.Account.CurrentBalance.Yen},
		Income: Income{
			Amount:   ls.Income.Amount.Yen,
			Payday:   ls.Income.Payday,
			Timezone: core.ReferenceTimezone,
		},
	}
	for _, c := range ls.Categories {
		sc := Category{ID: c.ID, Name: c.Name, IsArchived: c.IsArchived}
		if c.PlannedAmount.Yen != 0 {
			planned := c.PlannedAmount.Yen
			sc.PlannedAmount = &planned
		}
		snap.Categories = append(snap.Categories, sc)
	}
	for _, t := range ls.Transactions {
		st := Transaction{
			ID:         t.ID,
			Amount:     t.Amount.Yen,
			OccurredAt: t.OccurredAt.In(core.ReferenceLocation()).Format(time.RFC3339Nano),
			Note:       t.Note,
		}
		if t.CategoryID != "" {
			categoryID := t.CategoryID
			st.CategoryID = &categoryID
		}
		snap.Transactions = append(snap.Transactions, st)
	}
	return snap
}

func parseInstant(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, core.ReferenceLocation()); err == nil {
			return t.In(core.ReferenceLocation())
		}
	}
	return time.Time{}
}
