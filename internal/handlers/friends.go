package handlers

import (
	"net/http"

	"github.com/adityashravan/spendsavvy/internal/ledger"
	"github.com/adityashravan/spendsavvy/internal/middleware"
)

// FriendHandler owns friend listing, adding, and guarded removal.
type FriendHandler struct {
	svc *ledger.Service
}

// NewFriendHandler constructs the handler.
func NewFriendHandler(svc *ledger.Service) *FriendHandler {
	return &FriendHandler{svc: svc}
}

// Register attaches friend routes to the mux.
func (h *FriendHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/friends", h.handleList)
	mux.HandleFunc("POST /api/friends", h.handleAdd)
	mux.HandleFunc("DELETE /api/friends/{friendId}", h.handleRemove)
}

type friendPayload struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone,omitempty"`
}

type listFriendsResponse struct {
	Success bool            `json:"success"`
	Friends []friendPayload `json:"friends"`
}

func (h *FriendHandler) handleList(w http.ResponseWriter, r *http.Request) {
	friends, err := h.svc.ListFriends(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := listFriendsResponse{Success: true, Friends: []friendPayload{}}
	for _, f := range friends {
		resp.Friends = append(resp.Friends, friendPayload{UserID: f.UserID, Name: f.Name, Email: f.Email, Phone: f.Phone})
	}
	writeJSON(w, http.StatusOK, resp)
}

type addFriendRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type addFriendResponse struct {
	Success bool          `json:"success"`
	Friend  friendPayload `json:"friend"`
}

func (h *FriendHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addFriendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	friend, err := h.svc.AddFriend(r.Context(), middleware.GetUserID(r.Context()), req.Email, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addFriendResponse{
		Success: true,
		Friend:  friendPayload{UserID: friend.UserID, Name: friend.Name, Email: friend.Email, Phone: friend.Phone},
	})
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *FriendHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RemoveFriend(r.Context(), middleware.GetUserID(r.Context()), r.PathValue("friendId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
