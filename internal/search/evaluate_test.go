package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureObjects() []Object {
	return []Object{
		{"objectID": "1", "id": "1", "email": "ada@x.com", "first_name": "Ada", "created_at": float64(100)},
		{"objectID": "2", "id": "2", "email": "bob@x.com", "first_name": "Bob", "created_at": float64(200)},
		{"objectID": "3", "id": "3", "email": "cyd@y.com", "first_name": "Cyd", "created_at": float64(300)},
	}
}

func TestEvaluateNoQueryReturnsAll(t *testing.T) {
	res := Evaluate("t", fixtureObjects(), "", nil, Settings{})

	assert.Equal(t, 3, res.NbHits)
	assert.Equal(t, "t", res.Index)
	assert.Len(t, res.Hits, 3)
}

func TestEvaluateQuerySubstring(t *testing.T) {
	res := Evaluate("t", fixtureObjects(), "ada", nil, Settings{})

	require.Equal(t, 1, res.NbHits)
	assert.Equal(t, "1", res.Hits[0]["objectID"])
	assert.Equal(t, "ada", res.Query)
}

func TestEvaluateSearchableAttributesScopeQuery(t *testing.T) {
	settings := Settings{SearchableAttributes: []string{"first_name"}}

	// "x.com" 只出现在 email，而 email 不在可搜索字段里
	res := Evaluate("t", fixtureObjects(), "x.com", nil, settings)
	assert.Equal(t, 0, res.NbHits)

	res = Evaluate("t", fixtureObjects(), "bob", nil, settings)
	assert.Equal(t, 1, res.NbHits)
}

func TestEvaluateEqualityFilter(t *testing.T) {
	opts := Options{"filters": "objectID:2"}
	res := Evaluate("t", fixtureObjects(), "", opts, Settings{})

	require.Equal(t, 1, res.NbHits)
	assert.Equal(t, "bob@x.com", res.Hits[0]["email"])
}

func TestEvaluateQuotedEqualityFilter(t *testing.T) {
	// 等值 value 的双引号只是定界符，匹配时剥掉
	opts := Options{"filters": `first_name:"Bob"`}
	res := Evaluate("t", fixtureObjects(), "", opts, Settings{})

	require.Equal(t, 1, res.NbHits)
	assert.Equal(t, "bob@x.com", res.Hits[0]["email"])
}

func TestEvaluateRangeFilters(t *testing.T) {
	res := Evaluate("t", fixtureObjects(), "", Options{"filters": "created_at > 150"}, Settings{})
	assert.Equal(t, 2, res.NbHits)

	res = Evaluate("t", fixtureObjects(), "", Options{"filters": "created_at < 150"}, Settings{})
	assert.Equal(t, 1, res.NbHits)

	res = Evaluate("t", fixtureObjects(), "", Options{"filters": "created_at > 150 created_at < 250"}, Settings{})
	require.Equal(t, 1, res.NbHits)
	assert.Equal(t, "2", res.Hits[0]["objectID"])
}

func TestEvaluateProjection(t *testing.T) {
	opts := Options{"attributesToRetrieve": []string{"objectID", "email"}}
	res := Evaluate("t", fixtureObjects(), "", opts, Settings{})

	require.NotEmpty(t, res.Hits)
	hit := res.Hits[0]
	assert.Contains(t, hit, "email")
	assert.Contains(t, hit, "objectID")
	assert.NotContains(t, hit, "first_name")
}

func TestEvaluatePagination(t *testing.T) {
	opts := Options{"hitsPerPage": 2}
	res := Evaluate("t", fixtureObjects(), "", opts, Settings{})

	assert.Equal(t, 3, res.NbHits)
	assert.Equal(t, 2, res.NbPages)
	assert.Equal(t, 2, res.HitsPerPage)
	assert.Len(t, res.Hits, 2)

	opts["page"] = 1
	res = Evaluate("t", fixtureObjects(), "", opts, Settings{})
	assert.Equal(t, 1, res.Page)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "3", res.Hits[0]["objectID"])
}

func TestEvaluateOffsetLength(t *testing.T) {
	opts := Options{"offset": 1, "length": 1}
	res := Evaluate("t", fixtureObjects(), "", opts, Settings{})

	require.Len(t, res.Hits, 1)
	assert.Equal(t, "2", res.Hits[0]["objectID"])
	assert.Equal(t, 1, res.Offset)
	assert.Equal(t, 1, res.Length)
}

func TestEvaluateOffsetPastEnd(t *testing.T) {
	opts := Options{"offset": 10, "length": 5}
	res := Evaluate("t", fixtureObjects(), "", opts, Settings{})

	assert.Empty(t, res.Hits)
	assert.Equal(t, 3, res.NbHits)
}
