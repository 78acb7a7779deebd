// Package services orchestrates the ledger use cases: loading and
// migrating the snapshot, answering dashboard queries, and applying
// validated mutations that persist and announce themselves.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"kakeibo/internal/amqp"
	"kakeibo/internal/core"
	"kakeibo/internal/state"
	"kakeibo/internal/store"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// ChangePublisher announces persisted ledger changes. Publishing is
// best-effort: a failure never rolls back a mutation.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, msg *amqp.LedgerChangedMessage) error
}

// Dashboard is the derived read model for the current budget period.
type Dashboard struct {
	Period           core.BudgetPeriod
	IncomeLanded     bool
	Account          core.Account
	Income           core.Income
	TotalSpent       core.Money
	AvailableIncome  core.Money
	ProjectedSavings core.Money
	Spending         []core.AggregationEntry
	Planned          []core.AggregationEntry
}

// AddTransactionInput carries a new transaction before it has an id.
type AddTransactionInput struct {
	CategoryID string
	Amount     core.Money
	OccurredAt time.Time
	Note       string
}

// SettingsInput carries the editable household settings.
type SettingsInput struct {
	IncomeAmount   core.Money
	Payday         int
	CurrentBalance core.Money
}

// LedgerService owns the in-memory ledger state. The snapshot is
// migrated once at construction; every mutation validates, persists the
// whole document, then publishes a change message.
type LedgerService struct {
	mu        sync.RWMutex
	store     store.SnapshotStore
	publisher ChangePublisher
	clock     core.Clock
	ledger    state.LedgerState
}

func NewLedgerService(ctx context.Context, snapStore store.SnapshotStore, publisher ChangePublisher, clock core.Clock) (*LedgerService, error) {
	if clock == nil {
		clock = core.SystemClock{}
	}

	snap, ok, err := snapStore.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	sourceVersion := snap.SchemaVersion
	if !ok {
		snap = state.Decode([]byte(`{}`))
		sourceVersion = 0
	}
	migrated := state.Migrate(snap)

	s := &LedgerService{
		store:     snapStore,
		publisher: publisher,
		clock:     clock,
		ledger:    migrated.ToDomain(),
	}

	// Persist immediately when the document was missing or outdated so
	// the migration runs exactly once per schema bump.
	if !ok || sourceVersion != migrated.SchemaVersion {
		if err := snapStore.Save(ctx, migrated); err != nil {
			return nil, fmt.Errorf("save migrated snapshot: %w", err)
		}
		slog.InfoContext(ctx, "Snapshot migrated",
			"from_version", sourceVersion,
			"to_version", migrated.SchemaVersion)
	}

	return s, nil
}

// Dashboard computes the read model for the budget period containing now.
func (s *LedgerService) Dashboard(_ context.Context) Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.clock.Now()
	payday := s.ledger.Income.Payday
	period := core.PeriodContaining(payday, now)
	landed := core.HasIncomeLanded(payday, now)

	spending := core.GroupByCategory(s.ledger.Categories, s.ledger.Transactions, period)
	for i := range spending {
		spending[i].PercentOfIncome = core.PercentOfIncome(spending[i].Total, s.ledger.Income.Amount)
	}

	totalSpent := core.TotalSpent(s.ledger.Transactions, period)
	available := core.AvailableIncome(s.ledger.Income.Amount, landed)

	return Dashboard{
		Period:           period,
		IncomeLanded:     landed,
		Account:          s.ledger.Account,
		Income:           s.ledger.Income,
		TotalSpent:       totalSpent,
		AvailableIncome:  available,
		ProjectedSavings: core.ProjectedSavings(available, totalSpent),
		Spending:         spending,
		Planned:          core.PlannedBreakdown(s.ledger.Categories),
	}
}

// Ledger returns a copy of the current domain state.
func (s *LedgerService) Ledger(_ context.Context) state.LedgerState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLedger()
}

// AddTransaction validates and records a new transaction.
func (s *LedgerService) AddTransaction(ctx context.Context, in AddTransactionInput) (core.Transaction, error) {
	tx := core.Transaction{
		ID:         uuid.NewString(),
		CategoryID: in.CategoryID,
		Amount:     in.Amount,
		OccurredAt: in.OccurredAt,
		Note:       in.Note,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLedger()
	next.Transactions = append(next.Transactions, tx)
	if err := s.persist(ctx, next); err != nil {
		return core.Transaction{}, err
	}

	s.publish(ctx, amqp.ChangeTransactionAdded, tx.ID)
	return tx, nil
}

// DeleteTransaction removes a transaction by id.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLedger()
	kept := next.Transactions[:0:0]
	found := false
	for _, tx := range next.Transactions {
		if tx.ID == id {
			found = true
			continue
		}
		kept = append(kept, tx)
	}
	if !found {
		return ErrTransactionNotFound
	}
	next.Transactions = kept

	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.publish(ctx, amqp.ChangeTransactionDeleted, id)
	return nil
}

// UpdateCategories replaces the category list after validating the plan
// against the current income.
func (s *LedgerService) UpdateCategories(ctx context.Context, categories []core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range categories {
		if categories[i].ID == "" {
			categories[i].ID = uuid.NewString()
		}
	}
	if err := core.ValidateCategoryPlan(categories, s.ledger.Income.Amount); err != nil {
		return err
	}

	next := s.copyLedger()
	next.Categories = append([]core.Category(nil), categories...)
	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.publish(ctx, amqp.ChangeCategoriesUpdated, "")
	return nil
}

// UpdateSettings replaces income and account balance.
func (s *LedgerService) UpdateSettings(ctx context.Context, in SettingsInput) error {
	income := core.Income{
		Amount:   in.IncomeAmount,
		Payday:   in.Payday,
		Timezone: core.ReferenceTimezone,
	}
	if err := income.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.copyLedger()
	next.Income = income
	next.Account = core.Account{CurrentBalance: in.CurrentBalance}
	if err := s.persist(ctx, next); err != nil {
		return err
	}

	s.publish(ctx, amqp.ChangeSettingsUpdated, "")
	return nil
}

// persist saves the candidate state and commits it in memory only on
// success. Callers must hold the write lock.
func (s *LedgerService) persist(ctx context.Context, next state.LedgerState) error {
	if err := s.store.Save(ctx, state.FromDomain(next)); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	s.ledger = next
	return nil
}

func (s *LedgerService) publish(ctx context.Context, kind, entityID string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewLedgerChangedMessage(kind, entityID, state.CurrentSchemaVersion)
	if err := s.publisher.PublishLedgerChanged(ctx, msg); err != nil {
		// The mutation is already persisted; consumers catch up later.
		slog.ErrorContext(ctx, "Failed to publish ledger change",
			"kind", kind, "entity_id", entityID, "error", err)
	}
}

func (s *LedgerService) copyLedger() state.LedgerState {
	return state.LedgerState{
		Account:      s.ledger.Account,
		Income:       s.ledger.Income,
		Categories:   append([]core.Category(nil), s.ledger.Categories...),
		Transactions: append([]core.Transaction(nil), s.ledger.Transactions...),
	}
}
