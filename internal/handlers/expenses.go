package handlers

import (
	"net/http"

	"github.com/adityashravan/spendsavvy/internal/ledger"
	"github.com/adityashravan/spendsavvy/internal/middleware"
	"github.com/adityashravan/spendsavvy/internal/models"
)

// ExpenseHandler owns expense creation, listing, and share payment.
type ExpenseHandler struct {
	svc *ledger.Service
}

// NewExpenseHandler constructs the handler.
func NewExpenseHandler(svc *ledger.Service) *ExpenseHandler {
	return &ExpenseHandler{svc: svc}
}

// Register attaches expense routes to the mux.
func (h *ExpenseHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/expenses/create", h.handleCreate)
	mux.HandleFunc("GET /api/expenses", h.handleList)
	mux.HandleFunc("GET /api/expenses/{id}", h.handleGet)
	mux.HandleFunc("POST /api/expenses/{id}/pay", h.handlePay)
}

type createExpenseRequest struct {
	Description  string             `json:"description"`
	Amount       float64            `json:"amount"`
	Category     string             `json:"category"`
	Subcategory  string             `json:"subcategory"`
	Participants []string           `json:"participants"`
	SplitType    string             `json:"splitType"`
	CustomSplits map[string]float64 `json:"customSplits,omitempty"`
}

type splitPayload struct {
	UserID string  `json:"userId"`
	Amount float64 `json:"amount"`
	Paid   bool    `json:"paid"`
}

type expensePayload struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	TotalAmount float64        `json:"totalAmount"`
	Category    string         `json:"category"`
	Subcategory string         `json:"subcategory,omitempty"`
	CreatedBy   string         `json:"createdBy"`
	GroupID     string         `json:"groupId,omitempty"`
	CreatedAt   int64          `json:"createdAt"`
	Splits      []splitPayload `json:"splits"`
}

func toExpensePayload(e *models.Expense) expensePayload {
	p := expensePayload{
		ID:          e.ID,
		Description: e.Description,
		TotalAmount: e.TotalAmount,
		Category:    e.Category,
		Subcategory: e.Subcategory,
		CreatedBy:   e.CreatedBy,
		GroupID:     e.GroupID,
		CreatedAt:   e.CreatedAt,
	}
	for _, s := range e.Splits {
		p.Splits = append(p.Splits, splitPayload{UserID: s.UserID, Amount: s.Amount, Paid: s.Paid})
	}
	return p
}

type createExpenseResponse struct {
	Success bool           `json:"success"`
	Expense expensePayload `json:"expense"`
}

func (h *ExpenseHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.svc.CreateExpense(r.Context(), ledger.CreateExpenseInput{
		PayerID:       middleware.GetUserID(r.Context()),
		Description:   req.Description,
		TotalAmount:   req.Amount,
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Participants:  req.Participants,
		Policy:        models.SplitPolicy(req.SplitType),
		CustomAmounts: req.CustomSplits,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createExpenseResponse{Success: true, Expense: toExpensePayload(expense)})
}

type listExpensesResponse struct {
	Success  bool             `json:"success"`
	Expenses []expensePayload `json:"expenses"`
}

func (h *ExpenseHandler) handleList(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListExpenses(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listExpensesResponse{Success: true, Expenses: []expensePayload{}}
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, toExpensePayload(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ExpenseHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	expense, err := h.svc.GetExpense(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createExpenseResponse{Success: true, Expense: toExpensePayload(expense)})
}

type payShareRequest struct {
	SplitUserID string `json:"splitUserId"`
}

type paidSplitPayload struct {
	UserName   string  `json:"userName"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Paid       bool    `json:"paid"`
}

type payShareResponse struct {
	Success bool               `json:"success"`
	Splits  []paidSplitPayload `json:"splits"`
}

func (h *ExpenseHandler) handlePay(w http.ResponseWriter, r *http.Request) {
	var req payShareRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.svc.PayShare(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()), req.SplitUserID)
	if err != nil {
		writeError(w, err)
		return
	}

	ids := make([]string, len(expense.Splits))
	for i, s := range expense.Splits {
		ids[i] = s.UserID
	}
	names, err := h.svc.UserNames(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := payShareResponse{Success: true}
	for _, s := range expense.Splits {
		percentage := 0.0
		if expense.TotalAmount > 0 {
			percentage = s.Amount / expense.TotalAmount * 100
		}
		resp.Splits = append(resp.Splits, paidSplitPayload{
			UserName:   names[s.UserID],
			Amount:     s.Amount,
			Percentage: percentage,
			Paid:       s.Paid,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
