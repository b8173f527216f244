package validation

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
)

// Issue describes a single violated constraint.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// BuyerInput carries raw field values as received from an API payload or a
// CSV row. Empty strings mean the field is absent.
type BuyerInput struct {
	FullName     string
	Email        string
	Phone        string
	City         string
	PropertyType string
	BHK          string
	Purpose      string
	BudgetMin    string
	BudgetMax    string
	Timeline     string
	Source       string
	Status       string
	Notes        string
	Tags         string
}

// ValidatedBuyer is the normalized, typed result of a successful validation.
type ValidatedBuyer struct {
	FullName     string
	Email        *string
	Phone        string
	City         domain.City
	PropertyType domain.PropertyType
	BHK          *domain.BHK
	Purpose      domain.Purpose
	BudgetMin    *int
	BudgetMax    *int
	Timeline     domain.Timeline
	Source       domain.LeadSource
	Status       domain.LeadStatus
	Notes        *string
	Tags         string
}

// ValidateBuyer checks every constraint in one pass and either returns the
// normalized record or the full list of issues. Status defaults to New when
// absent. Cross-field rules (bhk requirement, budget ordering) are evaluated
// only when the fields they depend on parsed cleanly.
func ValidateBuyer(in BuyerInput) (*ValidatedBuyer, []Issue) {
	var issues []Issue
	out := &ValidatedBuyer{}

	// length limits count characters, not bytes
	fullName := strings.TrimSpace(in.FullName)
	if nameLen := utf8.RuneCountInString(fullName); nameLen < 2 {
		issues = append(issues, Issue{Path: "fullName", Message: "Full name must be at least 2 characters."})
	} else if nameLen > 80 {
		issues = append(issues, Issue{Path: "fullName", Message: "Full name cannot exceed 80 characters."})
	}
	out.FullName = fullName

	if email := strings.TrimSpace(in.Email); email != "" {
		if !isValidEmail(email) {
			issues = append(issues, Issue{Path: "email", Message: "Invalid email address."})
		} else {
			out.Email = &email
		}
	}

	phone := strings.TrimSpace(in.Phone)
	if !isAllDigits(phone) || len(phone) < 10 || len(phone) > 15 {
		issues = append(issues, Issue{Path: "phone", Message: "Phone number must be 10-15 digits."})
	}
	out.Phone = phone

	city, ok := parseEnum(in.City, domain.Cities())
	if !ok {
		issues = append(issues, enumIssue("city", domain.Cities()))
	}
	out.City = city

	propertyType, propertyTypeOK := parseEnum(in.PropertyType, domain.PropertyTypes())
	if !propertyTypeOK {
		issues = append(issues, enumIssue("propertyType", domain.PropertyTypes()))
	}
	out.PropertyType = propertyType

	bhkRaw := strings.TrimSpace(in.BHK)
	if propertyTypeOK && propertyType.RequiresBHK() {
		bhk, ok := parseEnum(bhkRaw, domain.BHKs())
		if !ok {
			issues = append(issues, Issue{Path: "bhk", Message: "BHK is required for Apartment or Villa property types."})
		} else {
			out.BHK = &bhk
		}
	} else if bhkRaw != "" {
		if bhk, ok := parseEnum(bhkRaw, domain.BHKs()); ok {
			out.BHK = &bhk
		} else {
			issues = append(issues, enumIssue("bhk", domain.BHKs()))
		}
	}

	purpose, ok := parseEnum(in.Purpose, domain.Purposes())
	if !ok {
		issues = append(issues, enumIssue("purpose", domain.Purposes()))
	}
	out.Purpose = purpose

	budgetMin, minIssue := parseBudget("budgetMin", in.BudgetMin)
	if minIssue != nil {
		issues = append(issues, *minIssue)
	}
	out.BudgetMin = budgetMin

	budgetMax, maxIssue := parseBudget("budgetMax", in.BudgetMax)
	if maxIssue != nil {
		issues = append(issues, *maxIssue)
	}
	out.BudgetMax = budgetMax

	if budgetMin != nil && budgetMax != nil && *budgetMax < *budgetMin {
		issues = append(issues, Issue{Path: "budgetMax", Message: "Max budget must be greater than or equal to min budget."})
	}

	timeline, ok := parseEnum(in.Timeline, domain.Timelines())
	if !ok {
		issues = append(issues, enumIssue("timeline", domain.Timelines()))
	}
	out.Timeline = timeline

	source, ok := parseEnum(in.Source, domain.LeadSources())
	if !ok {
		issues = append(issues, enumIssue("source", domain.LeadSources()))
	}
	out.Source = source

	if statusRaw := strings.TrimSpace(in.Status); statusRaw == "" {
		out.Status = domain.StatusNew
	} else if status, ok := parseEnum(statusRaw, domain.LeadStatuses()); ok {
		out.Status = status
	} else {
		issues = append(issues, enumIssue("status", domain.LeadStatuses()))
	}

	if notes := strings.TrimSpace(in.Notes); notes != "" {
		if utf8.RuneCountInString(notes) > 1000 {
			issues = append(issues, Issue{Path: "notes", Message: "Notes cannot exceed 1,000 characters."})
		} else {
			out.Notes = &notes
		}
	}

	out.Tags = strings.TrimSpace(in.Tags)

	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	// mail.ParseAddress alone accepts dotless domains like a@b
	domain := email[strings.LastIndex(email, "@")+1:]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseBudget(path, raw string) (*int, *Issue) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return nil, &Issue{Path: path, Message: "Budget must be a positive number."}
	}
	return &value, nil
}

func parseEnum[T ~string](raw string, allowed []T) (T, bool) {
	value := T(strings.TrimSpace(raw))
	for _, candidate := range allowed {
		if value == candidate {
			return value, true
		}
	}
	var zero T
	return zero, false
}

func enumIssue[T ~string](path string, allowed []T) Issue {
	values := make([]string, 0, len(allowed))
	for _, v := range allowed {
		values = append(values, string(v))
	}
	return Issue{
		Path:    path,
		Message: fmt.Sprintf("Invalid %s. Expected one of: %s.", path, strings.Join(values, ", ")),
	}
}
