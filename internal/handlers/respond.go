package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adityashravan/spendsavvy/internal/ledger"
)

// errorBody is the JSON shape of every failed response. Amount is set for
// conflicts blocked by an outstanding balance, discrepancy for custom
// splits that do not sum to the total.
type errorBody struct {
	Success     bool     `json:"success"`
	Error       string   `json:"error"`
	Amount      *float64 `json:"amount,omitempty"`
	Discrepancy *float64 `json:"discrepancy,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps ledger error types onto HTTP statuses. Money is
// involved, so every failure surfaces verbatim to the caller; nothing is
// swallowed.
func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}

	var (
		validationErr *ledger.ValidationError
		mismatchErr   *ledger.SplitMismatchError
		notFoundErr   *ledger.NotFoundError
		forbiddenErr  *ledger.ForbiddenError
		conflictErr   *ledger.ConflictError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &mismatchErr):
		status = http.StatusBadRequest
		d := mismatchErr.Discrepancy()
		body.Discrepancy = &d
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	case errors.As(err, &forbiddenErr):
		status = http.StatusForbidden
	case errors.As(err, &conflictErr):
		status = http.StatusConflict
		body.Amount = &conflictErr.Amount
	default:
		slog.Error("internal error", "error", err)
		body.Error = "internal server error"
	}

	writeJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, &ledger.ValidationError{Reason: "invalid JSON payload"})
		return false
	}
	return true
}
