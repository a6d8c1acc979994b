package handlers

import (
	"net/http"

	"github.com/adityashravan/spendsavvy/internal/ledger"
	"github.com/adityashravan/spendsavvy/internal/middleware"
	"github.com/adityashravan/spendsavvy/internal/models"
)

// GroupHandler owns group CRUD and group expense settlement.
type GroupHandler struct {
	svc *ledger.Service
}

// NewGroupHandler constructs the handler.
func NewGroupHandler(svc *ledger.Service) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// Register attaches group routes to the mux.
func (h *GroupHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/groups", h.handleList)
	mux.HandleFunc("POST /api/groups", h.handleCreate)
	mux.HandleFunc("GET /api/groups/{id}", h.handleGet)
	mux.HandleFunc("POST /api/groups/{id}/members", h.handleAddMembers)
	mux.HandleFunc("GET /api/groups/{id}/expenses", h.handleListExpenses)
	mux.HandleFunc("POST /api/groups/{id}/expenses", h.handleSettleExpense)
}

type groupPayload struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"createdBy"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"createdAt"`
}

func toGroupPayload(g *models.Group) groupPayload {
	return groupPayload{ID: g.ID, Name: g.Name, CreatedBy: g.CreatedBy, Members: g.Members, CreatedAt: g.CreatedAt}
}

type groupResponse struct {
	Success bool         `json:"success"`
	Group   groupPayload `json:"group"`
}

type listGroupsResponse struct {
	Success bool           `json:"success"`
	Groups  []groupPayload `json:"groups"`
}

func (h *GroupHandler) handleList(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.ListGroups(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listGroupsResponse{Success: true, Groups: []groupPayload{}}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, toGroupPayload(g))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func (h *GroupHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.svc.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Members)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{Success: true, Group: toGroupPayload(group)})
}

func (h *GroupHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	group, err := h.svc.GetGroup(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{Success: true, Group: toGroupPayload(group)})
}

type addMembersRequest struct {
	Members []string `json:"members"`
}

func (h *GroupHandler) handleAddMembers(w http.ResponseWriter, r *http.Request) {
	var req addMembersRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	group, err := h.svc.AddGroupMembers(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()), req.Members)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groupResponse{Success: true, Group: toGroupPayload(group)})
}

func (h *GroupHandler) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListGroupExpenses(r.Context(), r.PathValue("id"), middleware.GetUserID(r.Context()))
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

func (h *GroupHandler) handleSettleExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.svc.SettleGroupExpense(r.Context(), r.PathValue("id"), ledger.CreateExpenseInput{
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
