package shared

import "time"

// DateRange is a validity window. A nil bound is open-ended.
type DateRange struct {
	ValidFrom *time.Time
	ValidTo   *time.Time
}

// Validate collects a field error when valid_to precedes valid_from.
// The same rule recurs across documents, activities and mandates.
func (r DateRange) Validate(errs *ValidationErrors) {
	if r.ValidFrom != nil && r.ValidTo != nil && r.ValidTo.Before(*r.ValidFrom) {
		errs.Add("valid_to", "RANGE", "valid_to must not be before valid_from")
	}
}
