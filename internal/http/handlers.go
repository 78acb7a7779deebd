package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kakeibo/internal/core"
	"kakeibo/internal/services"
)

type dashboardResponse struct {
	PeriodStart      string       `json:"periodStart"`
	PeriodEnd        string       `json:"periodEnd"`
	IncomeLanded     bool         `json:"incomeLanded"`
	CurrentBalance   int64        `json:"currentBalance"`
	Income           incomeDTO    `json:"income"`
	TotalSpent       int64        `json:"totalSpent"`
	TotalSpentText   string       `json:"totalSpentText"`
	AvailableIncome  int64        `json:"availableIncome"`
	ProjectedSavings int64        `json:"projectedSavings"`
	Spending         []bucketDTO  `json:"spending"`
	Planned          []plannedDTO `json:"planned"`
}

type incomeDTO struct {
	Amount   int64  `json:"amount"`
	Payday   int    `json:"payday"`
	Timezone string `json:"timezone"`
}

type bucketDTO struct {
	BucketID        string `json:"bucketId"`
	Name            string `json:"name"`
	Total           int64  `json:"total"`
	TotalText       string `json:"totalText"`
	PercentOfIncome int    `json:"percentOfIncome"`
}

type plannedDTO struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Planned    int64  `json:"planned"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := s.ledger.Dashboard(r.Context())

	resp := dashboardResponse{
		PeriodStart:    d.Period.Start.Format(time.RFC3339),
		PeriodEnd:      d.Period.End.Format(time.RFC3339),
		IncomeLanded:   d.IncomeLanded,
		CurrentBalance: d.Account.CurrentBalance.Yen,
		Income: incomeDTO{
			Amount:   d.Income.Amount.Yen,
			Payday:   d.Income.Payday,
			Timezone: d.Income.Timezone,
		},
		TotalSpent:       d.TotalSpent.Yen,
		TotalSpentText:   core.FormatYen(d.TotalSpent),
		AvailableIncome:  d.AvailableIncome.Yen,
		ProjectedSavings: d.ProjectedSavings.Yen,
		Spending:         []bucketDTO{},
		Planned:          []plannedDTO{},
	}
	for _, e := range d.Spending {
		resp.Spending = append(resp.Spending, bucketDTO{
			BucketID:        e.BucketID,
			Name:            e.Name,
			Total:           e.Total.Yen,
			TotalText:       core.FormatYen(e.Total),
			PercentOfIncome: e.PercentOfIncome,
		})
	}
	for _, e := range d.Planned {
		resp.Planned = append(resp.Planned, plannedDTO{
			CategoryID: e.BucketID,
			Name:       e.Name,
			Planned:    e.Total.Yen,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type createTransactionRequest struct {
	CategoryID string          `json:"categoryId"`
	Amount     json.RawMessage `json:"amount"`
	OccurredAt string          `json:"occurredAt"`
	Note       string          `json:"note"`
}

type transactionResponse struct {
	ID         string `json:"id"`
	CategoryID string `json:"categoryId,omitempty"`
	Amount     int64  `json:"amount"`
	OccurredAt string `json:"occurredAt"`
	Note       string `json:"note,omitempty"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	occurredAt, err := parseDate(req.OccurredAt)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	tx, err := s.ledger.AddTransaction(r.Context(), services.AddTransactionInput{
		CategoryID: strings.TrimSpace(req.CategoryID),
		Amount:     amount,
		OccurredAt: occurredAt,
		Note:       strings.TrimSpace(req.Note),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, transactionResponse{
		ID:         tx.ID,
		CategoryID: tx.CategoryID,
		Amount:     tx.Amount.Yen,
		OccurredAt: tx.OccurredAt.Format(time.RFC3339),
		Note:       tx.Note,
	})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction id")
		return
	}

	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type categoryRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	IsArchived    bool   `json:"isArchived"`
	PlannedAmount int64  `json:"plannedAmount"`
}

func (s *Server) handleUpdateCategories(w http.ResponseWriter, r *http.Request) {
	var req []categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	categories := make([]core.Category, 0, len(req))
	for _, c := range req {
		categories = append(categories, core.Category{
			ID:            strings.TrimSpace(c.ID),
			Name:          strings.TrimSpace(c.Name),
			IsArchived:    c.IsArchived,
			PlannedAmount: core.Money{Yen: c.PlannedAmount},
		})
	}

	if err := s.ledger.UpdateCategories(r.Context(), categories); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type settingsRequest struct {
	IncomeAmount   int64 `json:"incomeAmount"`
	Payday         int   `json:"payday"`
	CurrentBalance int64 `json:"currentBalance"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.ledger.UpdateSettings(r.Context(), services.SettingsInput{
		IncomeAmount:   core.Money{Yen: req.IncomeAmount},
		Payday:         req.Payday,
		CurrentBalance: core.Money{Yen: req.CurrentBalance},
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseAmount accepts either a JSON number of yen or a display string
// such as "¥1,200".
func parseAmount(raw json.RawMessage) (core.Money, error) {
	if len(raw) == 0 {
		return core.Money{}, core.ErrInvalidAmount
	}
	var yen int64
	if err := json.Unmarshal(raw, &yen); err == nil {
		m := core.Money{Yen: yen}
		if err := m.Validate(); err != nil {
			return core.Money{}, err
		}
		return m, nil
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		yen, err := core.ParseYenInput(text)
		if err != nil {
			return core.Money{}, err
		}
		return core.Money{Yen: yen}, nil
	}
	return core.Money{}, core.ErrInvalidAmount
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, core.ReferenceLocation()); err == nil {
			return t.In(core.ReferenceLocation()), nil
		}
	}
	return time.Time{}, errors.New("invalid occurredAt date")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps domain validation failures to 422 and anything
// else to 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidPayday),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrZeroOccurredAt),
		errors.Is(err, core.ErrNoteTooLong),
		errors.Is(err, core.ErrPlanOverBudget):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed", "error", err, "url", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
