package handlers

import (
	"net/http"
	"strconv"

	"github.com/adityashravan/spendsavvy/internal/ledger"
	"github.com/adityashravan/spendsavvy/internal/middleware"
)

// AnalyticsHandler exposes the category and history projections.
type AnalyticsHandler struct {
	svc *ledger.Service
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(svc *ledger.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// Register attaches analytics routes to the mux.
func (h *AnalyticsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/analytics/categories", h.handleCategories)
	mux.HandleFunc("GET /api/analytics/history", h.handleHistory)
}

type categorySpendPayload struct {
	Category   string  `json:"category"`
	TotalSpent float64 `json:"totalSpent"`
	YourShare  float64 `json:"yourShare"`
	Count      int     `json:"count"`
}

type categoriesResponse struct {
	Success    bool                   `json:"success"`
	Timeframe  string                 `json:"timeframe"`
	Categories []categorySpendPayload `json:"categories"`
}

func (h *AnalyticsHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	timeframe := r.URL.Query().Get("timeframe")
	spends, err := h.svc.SpendingByCategory(r.Context(), middleware.GetUserID(r.Context()), timeframe)
	if err != nil {
		writeError(w, err)
		return
	}

	if timeframe == "" {
		timeframe = "all"
	}
	resp := categoriesResponse{Success: true, Timeframe: timeframe, Categories: []categorySpendPayload{}}
	for _, cs := range spends {
		resp.Categories = append(resp.Categories, categorySpendPayload{
			Category:   cs.Category,
			TotalSpent: cs.TotalSpent,
			YourShare:  cs.YourShare,
			Count:      cs.Count,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type historyEntryPayload struct {
	ExpenseID    string  `json:"expenseId"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory,omitempty"`
	TotalAmount  float64 `json:"totalAmount"`
	YourShare    float64 `json:"yourShare"`
	SharePaid    bool    `json:"sharePaid"`
	CreatedByYou bool    `json:"createdByYou"`
	GroupID      string  `json:"groupId,omitempty"`
	CreatedAt    int64   `json:"createdAt"`
}

type historyResponse struct {
	Success bool                  `json:"success"`
	History []historyEntryPayload `json:"history"`
}

func (h *AnalyticsHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := ledger.HistoryFilters{Category: query.Get("category")}
	if v := query.Get("since"); v != "" {
		since, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, &ledger.ValidationError{Reason: "since must be a Unix timestamp"})
			return
		}
		filters.Since = since
	}
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, &ledger.ValidationError{Reason: "limit must be a non-negative integer"})
			return
		}
		filters.Limit = limit
	}

	entries, err := h.svc.SpendingHistory(r.Context(), middleware.GetUserID(r.Context()), filters)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := historyResponse{Success: true, History: []historyEntryPayload{}}
	for _, e := range entries {
		resp.History = append(resp.History, historyEntryPayload{
			ExpenseID:    e.ExpenseID,
			Description:  e.Description,
			Category:     e.Category,
			Subcategory:  e.Subcategory,
			TotalAmount:  e.TotalAmount,
			YourShare:    e.YourShare,
			SharePaid:    e.SharePaid,
			CreatedByYou: e.CreatedByYou,
			GroupID:      e.GroupID,
			CreatedAt:    e.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
