package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"finanzas/internal/core"
	"finanzas/internal/export"
)

type transactionView struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	Category    string `json:"category"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func newTransactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		Kind:        t.Kind.String(),
		Category:    t.Category,
		AmountCents: t.Amount.Cents,
		Amount:      t.Amount.String(),
		Date:        t.Date.String(),
		Description: t.Description,
	}
}

func transactionViews(txs []core.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, t := range txs {
		out = append(out, newTransactionView(t))
	}
	return out
}

type moneyView struct {
	Cents int64  `json:"cents"`
	Value string `json:"value"`
}

func newMoneyView(m core.Money) moneyView {
	return moneyView{Cents: m.Cents, Value: m.String()}
}

type kpiView struct {
	Year                int               `json:"year"`
	Month               int               `json:"month"`
	TotalIncome         moneyView         `json:"total_income"`
	TotalExpense        moneyView         `json:"total_expense"`
	NetSavings          moneyView         `json:"net_savings"`
	PriorNetSavings     moneyView         `json:"prior_period_net_savings"`
	SavingsVariationPct float64           `json:"savings_variation_pct"`
	BudgetUsedPct       float64           `json:"budget_used_pct"`
	GoalProgressPct     float64           `json:"goal_progress_pct"`
	Anomalies           []transactionView `json:"anomalies"`
	AnomalyCount        int               `json:"anomaly_count"`
	IsCurrentPeriod     bool              `json:"is_current_period"`
	ProjectedSavings    moneyView         `json:"projected_savings"`
	OnTrackForGoal      bool              `json:"on_track_for_goal"`
	Transactions        []transactionView `json:"period_transactions"`
	Prev                string            `json:"prev_period"`
	Next                string            `json:"next_period"`
}

func newKPIView(b core.KPIBundle) kpiView {
	return kpiView{
		Year:                b.Period.Year,
		Month:               b.Period.Month,
		TotalIncome:         newMoneyView(b.TotalIncome),
		TotalExpense:        newMoneyView(b.TotalExpense),
		NetSavings:          newMoneyView(b.NetSavings),
		PriorNetSavings:     newMoneyView(b.PriorNetSavings),
		SavingsVariationPct: b.SavingsVariationPct,
		BudgetUsedPct:       b.BudgetUsedPct,
		GoalProgressPct:     b.GoalProgressPct,
		Anomalies:           transactionViews(b.Anomalies),
		AnomalyCount:        b.AnomalyCount,
		IsCurrentPeriod:     b.IsCurrentPeriod,
		ProjectedSavings:    newMoneyView(b.ProjectedSavings),
		OnTrackForGoal:      b.OnTrackForGoal,
		Transactions:        transactionViews(b.PeriodTransactions),
		Prev:                b.Period.Prev().String(),
		Next:                b.Period.Next().String(),
	}
}

type categoryView struct {
	Category string    `json:"category"`
	Amount   moneyView `json:"amount"`
}

type configView struct {
	Budget      moneyView `json:"budget"`
	SavingsGoal moneyView `json:"savings_goal"`
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := s.dashboard.Balance(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balance_cents": balance.Cents,
		"balance":       balance.String(),
	})
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	p, err := ParseMonthParams(r.URL.Query(), s.dashboard.Now())
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	b, err := s.dashboard.KPIs(r.Context(), p.Year, p.Month)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, newKPIView(b))
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	p, err := ParseMonthParams(r.URL.Query(), s.dashboard.Now())
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	rows, err := s.dashboard.Breakdown(r.Context(), p.Year, p.Month)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	out := make([]categoryView, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryView{Category: row.Name, Amount: newMoneyView(row.Amount)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.ledger.Transactions(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	sorted := make([]core.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date.Time) {
			return sorted[i].Date.After(sorted[j].Date.Time)
		}
		return sorted[i].ID > sorted[j].ID
	})
	writeJSON(w, http.StatusOK, transactionViews(sorted))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	body := NewRequestBodyParser(r)
	if err := body.Parse(); err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	t, err := s.transactionFromBody(body)
	if err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	stored, err := s.ledger.AddTransaction(r.Context(), t)
	if err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	slog.InfoContext(r.Context(), "Transaction created",
		"transaction_id", stored.ID,
		"kind", stored.Kind,
		"category", stored.Category,
		"amount_cents", stored.Amount.Cents)
	w.Header().Set("Location", "/api/transactions/"+strconv.FormatInt(stored.ID, 10))
	writeJSON(w, http.StatusCreated, newTransactionView(stored))
}

// transactionFromBody builds an unsaved transaction. A missing date means today.
func (s *Server) transactionFromBody(body *RequestBodyParser) (core.Transaction, error) {
	kind, err := core.ParseKind(body.Get("kind"))
	if err != nil {
		return core.Transaction{}, err
	}

	cents, err := core.ParseDecimalToCents(body.Get("amount"))
	if err != nil {
		return core.Transaction{}, err
	}

	date := core.DateOf(s.dashboard.Now())
	if v := body.Get("date"); v != "" {
		if date, err = core.ParseDate(v); err != nil {
			return core.Transaction{}, err
		}
	}

	return core.Transaction{
		Kind:        kind,
		Category:    body.Get("category"),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: body.Get("description"),
	}, nil
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: transaction id %q", err, r.PathValue("id")), http.StatusBadRequest)
		return
	}
	removed, err := s.ledger.DeleteTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	slog.InfoContext(r.Context(), "Transaction deleted", "transaction_id", removed.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	settings, err := s.ledger.Settings(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, configView{
		Budget:      newMoneyView(settings.Budget),
		SavingsGoal: newMoneyView(settings.SavingsGoal),
	})
}

// handlePutConfig replaces the fields present in the body and keeps the rest.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	body := NewRequestBodyParser(r)
	if err := body.Parse(); err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	settings, err := s.ledger.Settings(r.Context())
	if err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	for key, dst := range map[string]*core.Money{
		"budget":       &settings.Budget,
		"savings_goal": &settings.SavingsGoal,
	} {
		if !body.Has(key) {
			continue
		}
		cents, err := core.ParseNonNegativeCents(body.Get(key))
		if err != nil {
			writeError(w, r, fmt.Errorf("%s: %w", key, err), http.StatusUnprocessableEntity)
			return
		}
		*dst = core.Money{Cents: cents}
	}

	if err := s.ledger.UpdateSettings(r.Context(), settings); err != nil {
		writeError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, configView{
		Budget:      newMoneyView(settings.Budget),
		SavingsGoal: newMoneyView(settings.SavingsGoal),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	kind, err := core.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	cats, err := s.ledger.Categories(r.Context(), kind)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"kind": kind, "categories": cats})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, err := ParseMonthParams(r.URL.Query(), s.dashboard.Now())
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	txs, err := s.dashboard.PeriodTransactions(r.Context(), p.Year, p.Month)
	if err != nil {
		writeError(w, r, err, http.StatusBadRequest)
		return
	}
	if len(txs) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no data to export"})
		return
	}

	data, err := export.Bytes(txs)
	if err != nil {
		writeError(w, r, fmt.Errorf("export: %w", err), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.FileName(p.Year, p.Month)))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.WarnContext(r.Context(), "Failed to write export", "error", err)
	}
}
