package handlers

import (
	"net/http"
	"strings"

	"github.com/adityashravan/spendsavvy/internal/assistant"
	"github.com/adityashravan/spendsavvy/internal/ledger"
	"github.com/adityashravan/spendsavvy/internal/middleware"
)

// AssistantHandler proxies free-text messages to the external
// natural-language parser and returns the structured proposal. Nothing is
// persisted here; the client submits the confirmed proposal through the
// normal expense endpoint.
type AssistantHandler struct {
	parser assistant.Parser
}

// NewAssistantHandler constructs the handler. A nil parser disables the
// endpoint with a 503.
func NewAssistantHandler(parser assistant.Parser) *AssistantHandler {
	return &AssistantHandler{parser: parser}
}

// Register attaches the assistant route to the mux.
func (h *AssistantHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/assistant/parse", h.handleParse)
}

type parseRequest struct {
	Message string `json:"message"`
}

type parseResponse struct {
	Success  bool                     `json:"success"`
	Proposal *assistant.ParsedExpense `json:"proposal"`
}

func (h *AssistantHandler) handleParse(w http.ResponseWriter, r *http.Request) {
	if h.parser == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "expense parsing is not configured"})
		return
	}

	var req parseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, &ledger.ValidationError{Reason: "message is required"})
		return
	}

	proposal, err := h.parser.Parse(r.Context(), middleware.GetUserID(r.Context()), req.Message)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "failed to parse message: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{Success: true, Proposal: proposal})
}
