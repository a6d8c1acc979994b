package handlers

import (
	"net/http"

	"github.com/adityashravan/spendsavvy/internal/ledger"
	"github.com/adityashravan/spendsavvy/internal/middleware"
	"github.com/adityashravan/spendsavvy/internal/models"
)

// BalanceHandler exposes the derived balance view. Every surface that
// shows balances calls this one endpoint, so the numbers always agree.
type BalanceHandler struct {
	svc *ledger.Service
}

// NewBalanceHandler constructs the handler.
func NewBalanceHandler(svc *ledger.Service) *BalanceHandler {
	return &BalanceHandler{svc: svc}
}

// Register attaches the balance route to the mux.
func (h *BalanceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/balances", h.handleGet)
}

type balanceExpensePayload struct {
	ExpenseID   string  `json:"expenseId"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	CreatedAt   int64   `json:"createdAt"`
}

type friendBalancePayload struct {
	UserID     string                  `json:"userId"`
	UserName   string                  `json:"userName"`
	OwesYou    float64                 `json:"owesYou"`
	YouOwe     float64                 `json:"youOwe"`
	NetBalance float64                 `json:"netBalance"`
	Expenses   []balanceExpensePayload `json:"expenses"`
}

type balanceSummaryPayload struct {
	TotalOwedToYou float64 `json:"totalOwedToYou"`
	TotalYouOwe    float64 `json:"totalYouOwe"`
	NetBalance     float64 `json:"netBalance"`
	FriendCount    int     `json:"friendCount"`
}

type balancesResponse struct {
	Success  bool                   `json:"success"`
	Balances []friendBalancePayload `json:"balances"`
	Summary  balanceSummaryPayload  `json:"summary"`
}

func toFriendBalancePayload(b models.FriendBalance) friendBalancePayload {
	p := friendBalancePayload{
		UserID:     b.UserID,
		UserName:   b.UserName,
		OwesYou:    b.OwesYou,
		YouOwe:     b.YouOwe,
		NetBalance: b.NetBalance,
		Expenses:   []balanceExpensePayload{},
	}
	for _, e := range b.Expenses {
		p.Expenses = append(p.Expenses, balanceExpensePayload{
			ExpenseID:   e.ExpenseID,
			Description: e.Description,
			Category:    e.Category,
			Amount:      e.Amount,
			CreatedAt:   e.CreatedAt,
		})
	}
	return p
}

func (h *BalanceHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	balances, summary, err := h.svc.ComputeBalances(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := balancesResponse{
		Success:  true,
		Balances: []friendBalancePayload{},
		Summary: balanceSummaryPayload{
			TotalOwedToYou: summary.TotalOwedToYou,
			TotalYouOwe:    summary.TotalYouOwe,
			NetBalance:     summary.NetBalance,
			FriendCount:    summary.FriendCount,
		},
	}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, toFriendBalancePayload(b))
	}
	writeJSON(w, http.StatusOK, resp)
}
