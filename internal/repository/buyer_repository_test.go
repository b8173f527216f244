package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/buyer-lead-service/internal/domain"
)

func TestFilterClausesNumbersArgsInOrder(t *testing.T) {
	city := domain.CityMohali
	status := domain.StatusNew
	clauses, args := filterClauses(BuyerFilter{City: &city, Status: &status})
	assert.Equal(t, []string{"1=1", "city=$1", "status=$2"}, clauses)
	assert.Equal(t, []any{city, status}, args)
}

func TestFilterClausesEscapesLikeMetacharacters(t *testing.T) {
	search := "50%_Off\\"
	clauses, args := filterClauses(BuyerFilter{Search: &search})
	require.Len(t, args, 1)
	assert.Equal(t, `%50\%\_off\\%`, args[0], "wildcards in the needle must match literally")
	assert.Contains(t, clauses[len(clauses)-1], "LIKE $1")
}

func TestFilterClausesIgnoresBlankSearch(t *testing.T) {
	search := "   "
	clauses, args := filterClauses(BuyerFilter{Search: &search})
	assert.Equal(t, []string{"1=1"}, clauses)
	assert.Empty(t, args)
}
