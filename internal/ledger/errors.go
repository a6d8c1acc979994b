package ledger

import "fmt"

// ValidationError reports malformed or missing input fields
// (non-positive amount, empty participant list, duplicate participants).
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// SplitMismatchError reports custom splits that do not sum to the expense
// total within a one-cent tolerance. It carries the discrepancy so the
// caller can show "off by $X.XX".
type SplitMismatchError struct {
	Total float64
	Sum   float64
}

// Discrepancy returns the absolute difference between the split sum and
// the expense total.
func (e *SplitMismatchError) Discrepancy() float64 {
	d := e.Total - e.Sum
	if d < 0 {
		d = -d
	}
	return roundCents(d)
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("splits sum to $%.2f but expense total is $%.2f: off by $%.2f",
		e.Sum, e.Total, e.Discrepancy())
}

// NotFoundError reports a referenced expense, split, user, group, or
// friendship that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ForbiddenError reports a caller lacking rights over the resource.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return e.Reason }

// ConflictError reports an operation blocked by current ledger state,
// such as removing a friend with an outstanding balance. Amount carries
// the offending balance for display.
type ConflictError struct {
	Reason string
	Amount float64
}

func (e *ConflictError) Error() string { return e.Reason }
