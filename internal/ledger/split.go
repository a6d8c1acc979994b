package ledger

import "math"

// Split allocation works in integer cents so that share sums always match
// the expense total exactly, regardless of participant count.

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}

func roundCents(amount float64) float64 {
	return fromCents(toCents(amount))
}

// EqualShares divides total over n participants. Every share is the
// floor of total/n in cents; the leftover cents go to the first
// total%n positions. Callers pass participants in a stable order, so the
// remainder assignment is deterministic.
func EqualShares(total float64, n int) []float64 {
	cents := toCents(total)
	base := cents / int64(n)
	remainder := cents % int64(n)

	shares := make([]float64, n)
	for i := range shares {
		c := base
		if int64(i) < remainder {
			c++
		}
		shares[i] = fromCents(c)
	}
	return shares
}

// validateCustomShares checks that the supplied amounts sum to the total
// within one cent. Each amount must be positive.
func validateCustomShares(total float64, amounts []float64) error {
	var sum int64
	for _, a := range amounts {
		if a <= 0 {
			return &ValidationError{Reason: "custom split amounts must be positive"}
		}
		sum += toCents(a)
	}
	if diff := sum - toCents(total); diff > 1 || diff < -1 {
		return &SplitMismatchError{Total: total, Sum: fromCents(sum)}
	}
	return nil
}
