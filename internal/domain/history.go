package domain

const (
	MinHistoryLimit     = 1
	MaxHistoryLimit     = 10000
	DefaultHistoryLimit = 500
)

type PricePoint struct {
	TS    int64
	Price float64
}

// History is a time-ascending slice of a symbol's most recent samples.
type History struct {
	Symbol Symbol
	Points []PricePoint
}

// ValidateHistoryLimit rejects limits outside [MinHistoryLimit, MaxHistoryLimit].
// Out of range values are never clamped.
func ValidateHistoryLimit(limit int) error {
	if limit < MinHistoryLimit || limit > MaxHistoryLimit {
		return ErrInvalidLimit
	}
	return nil
}
