package period

import "fmt"

// Validate rejects drafts with missing or malformed dates, and drafts whose
// predicted date precedes the start date.
func Validate(d Draft) error {
	if d.StartDate == "" {
		return fmt.Errorf("%w: start date is required", ErrValidation)
	}
	if d.PredictedDate == "" {
		return fmt.Errorf("%w: predicted date is required", ErrValidation)
	}
	start, err := ParseDate(d.StartDate)
	if err != nil {
		return fmt.Errorf("%w: invalid start date %q", ErrValidation, d.StartDate)
	}
	predicted, err := ParseDate(d.PredictedDate)
	if err != nil {
		return fmt.Errorf("%w: invalid predicted date %q", ErrValidation, d.PredictedDate)
	}
	if predicted.Before(start) {
		return fmt.Errorf("%w: predicted date %s is before start date %s", ErrValidation, d.PredictedDate, d.StartDate)
	}
	return nil
}

// ValidateStored applies Validate to a persisted record and additionally
// requires a creation timestamp.
func ValidateStored(r Record) error {
	if r.CreatedAt == "" {
		return fmt.Errorf("%w: createdAt is required", ErrValidation)
	}
	return Validate(Draft{StartDate: r.StartDate, PredictedDate: r.PredictedDate})
}
