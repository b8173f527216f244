package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
)

func validInput() BuyerInput {
	return BuyerInput{
		FullName:     "Priya Sharma",
		Email:        "priya@example.com",
		Phone:        "9876543210",
		City:         "Mohali",
		PropertyType: "Apartment",
		BHK:          "3",
		Purpose:      "Buy",
		BudgetMin:    "5000000",
		BudgetMax:    "7500000",
		Timeline:     "0-3m",
		Source:       "Website",
		Notes:        "Prefers a corner unit",
		Tags:         "hot,priority",
	}
}

func issuePaths(issues []Issue) []string {
	paths := make([]string, 0, len(issues))
	for _, issue := range issues {
		paths = append(paths, issue.Path)
	}
	return paths
}

func TestValidateBuyerNormalizesValidInput(t *testing.T) {
	out, issues := ValidateBuyer(validInput())
	require.Nil(t, issues)
	require.NotNil(t, out)

	assert.Equal(t, "Priya Sharma", out.FullName)
	require.NotNil(t, out.Email)
	assert.Equal(t, "priya@example.com", *out.Email)
	assert.Equal(t, domain.CityMohali, out.City)
	assert.Equal(t, domain.PropertyApartment, out.PropertyType)
	require.NotNil(t, out.BHK)
	assert.Equal(t, domain.BHKThree, *out.BHK)
	require.NotNil(t, out.BudgetMin)
	assert.Equal(t, 5000000, *out.BudgetMin)
	require.NotNil(t, out.BudgetMax)
	assert.Equal(t, 7500000, *out.BudgetMax)
	assert.Equal(t, domain.StatusNew, out.Status, "status defaults to New when absent")
}

func TestValidateBuyerOptionalFieldsAbsent(t *testing.T) {
	in := validInput()
	in.Email = ""
	in.BHK = ""
	in.PropertyType = "Plot"
	in.BudgetMin = ""
	in.BudgetMax = ""
	in.Notes = ""

	out, issues := ValidateBuyer(in)
	require.Nil(t, issues)
	assert.Nil(t, out.Email)
	assert.Nil(t, out.BHK)
	assert.Nil(t, out.BudgetMin)
	assert.Nil(t, out.BudgetMax)
	assert.Nil(t, out.Notes)
}

func TestValidateBuyerBHKRequiredForApartmentAndVilla(t *testing.T) {
	for _, propertyType := range []string{"Apartment", "Villa"} {
		in := validInput()
		in.PropertyType = propertyType
		in.BHK = ""
		_, issues := ValidateBuyer(in)
		require.NotNil(t, issues, propertyType)
		assert.Contains(t, issuePaths(issues), "bhk")
	}

	for _, propertyType := range []string{"Plot", "Office", "Retail"} {
		in := validInput()
		in.PropertyType = propertyType
		in.BHK = ""
		_, issues := ValidateBuyer(in)
		assert.Nil(t, issues, propertyType)
	}
}

func TestValidateBuyerInvalidBHKValue(t *testing.T) {
	in := validInput()
	in.BHK = "5"
	_, issues := ValidateBuyer(in)
	require.NotNil(t, issues)
	assert.Contains(t, issuePaths(issues), "bhk")
}

func TestValidateBuyerBudgetOrdering(t *testing.T) {
	in := validInput()
	in.BudgetMin = "100"
	in.BudgetMax = "50"
	_, issues := ValidateBuyer(in)
	require.NotNil(t, issues)
	assert.Equal(t, []string{"budgetMax"}, issuePaths(issues))

	in.BudgetMax = "100"
	_, issues = ValidateBuyer(in)
	assert.Nil(t, issues, "equal budgets are accepted")
}

func TestValidateBuyerPhone(t *testing.T) {
	cases := map[string]string{
		"too short":  "123456789",
		"too long":   "1234567890123456",
		"non-digits": "98765abc10",
		"empty":      "",
	}
	for name, phone := range cases {
		in := validInput()
		in.Phone = phone
		_, issues := ValidateBuyer(in)
		require.NotNil(t, issues, name)
		assert.Contains(t, issuePaths(issues), "phone", name)
	}
}

func TestValidateBuyerEmail(t *testing.T) {
	for _, email := range []string{"not-an-email", "a@b", "a@b."} {
		in := validInput()
		in.Email = email
		_, issues := ValidateBuyer(in)
		require.NotNil(t, issues, email)
		assert.Contains(t, issuePaths(issues), "email", email)
	}
}

func TestValidateBuyerLengthLimitsCountCharacters(t *testing.T) {
	in := validInput()
	in.FullName = strings.Repeat("अ", 40)
	_, issues := ValidateBuyer(in)
	assert.Nil(t, issues, "40 characters is within the limit regardless of byte width")

	in.FullName = strings.Repeat("अ", 81)
	_, issues = ValidateBuyer(in)
	require.NotNil(t, issues)
	assert.Contains(t, issuePaths(issues), "fullName")

	in.FullName = "é"
	_, issues = ValidateBuyer(in)
	require.NotNil(t, issues)
	assert.Contains(t, issuePaths(issues), "fullName")

	in = validInput()
	in.Notes = strings.Repeat("म", 1000)
	out, issues := ValidateBuyer(in)
	require.Nil(t, issues)
	require.NotNil(t, out.Notes)
}

func TestValidateBuyerNotesLimit(t *testing.T) {
	in := validInput()
	in.Notes = strings.Repeat("x", 1001)
	_, issues := ValidateBuyer(in)
	require.NotNil(t, issues)
	assert.Contains(t, issuePaths(issues), "notes")
}

func TestValidateBuyerRejectsUnknownEnumValues(t *testing.T) {
	in := validInput()
	in.City = "Delhi"
	in.Purpose = "Lease"
	in.Status = "Archived"
	_, issues := ValidateBuyer(in)
	require.NotNil(t, issues)
	paths := issuePaths(issues)
	assert.Contains(t, paths, "city")
	assert.Contains(t, paths, "purpose")
	assert.Contains(t, paths, "status")
}

func TestValidateBuyerReportsAllViolationsInOnePass(t *testing.T) {
	in := validInput()
	in.FullName = "P"
	in.Phone = "123"
	in.City = "Nowhere"
	_, issues := ValidateBuyer(in)
	require.Len(t, issues, 3)
	paths := issuePaths(issues)
	assert.Contains(t, paths, "fullName")
	assert.Contains(t, paths, "phone")
	assert.Contains(t, paths, "city")
}
