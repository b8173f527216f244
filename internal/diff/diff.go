// Package diff computes field-level change sets between two buyer lead
// snapshots for the change history log.
package diff

import "github.com/spec-kit/buyer-lead-service/internal/domain"

// Compute returns a mapping of every field whose value differs between prev
// and next, carrying the old and new values. Identical fields are omitted;
// nil versus a concrete value counts as a change. Pure function.
func Compute(prev, next *domain.Buyer) domain.Diff {
	d := domain.Diff{}

	compare(d, "fullName", prev.FullName, next.FullName)
	comparePtr(d, "email", prev.Email, next.Email)
	compare(d, "phone", prev.Phone, next.Phone)
	compare(d, "city", prev.City, next.City)
	compare(d, "propertyType", prev.PropertyType, next.PropertyType)
	comparePtr(d, "bhk", prev.BHK, next.BHK)
	compare(d, "purpose", prev.Purpose, next.Purpose)
	comparePtr(d, "budgetMin", prev.BudgetMin, next.BudgetMin)
	comparePtr(d, "budgetMax", prev.BudgetMax, next.BudgetMax)
	compare(d, "timeline", prev.Timeline, next.Timeline)
	compare(d, "source", prev.Source, next.Source)
	compare(d, "status", prev.Status, next.Status)
	comparePtr(d, "notes", prev.Notes, next.Notes)
	compare(d, "tags", prev.Tags, next.Tags)

	return d
}

func compare[T comparable](d domain.Diff, field string, before, after T) {
	if before != after {
		d[field] = domain.FieldChange{Old: before, New: after}
	}
}

// comparePtr treats nil as a distinct comparable value: nil vs concrete is a
// change, two equal concrete values are not.
func comparePtr[T comparable](d domain.Diff, field string, before, after *T) {
	switch {
	case before == nil && after == nil:
		return
	case before == nil:
		d[field] = domain.FieldChange{Old: nil, New: *after}
	case after == nil:
		d[field] = domain.FieldChange{Old: *before, New: nil}
	case *before != *after:
		d[field] = domain.FieldChange{Old: *before, New: *after}
	}
}
