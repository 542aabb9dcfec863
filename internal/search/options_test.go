package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOptionsDefaults(t *testing.T) {
	opts := BuildOptions(nil)

	assert.Equal(t, []string{"objectID"}, opts["attributesToRetrieve"])
	assert.Equal(t, "", opts["filters"])
	assert.NotContains(t, opts, "query")
	assert.NotContains(t, opts, "hitsPerPage")
	assert.NotContains(t, opts, "offset")
	assert.NotContains(t, opts, "page")
	assert.NotContains(t, opts, "disableTypoToleranceOnAttributes")
	assert.NotContains(t, opts, "optionalWords")
}

func TestBuildOptionsAttributesToRetrieveDeduped(t *testing.T) {
	opts := BuildOptions(Params{"attributesToRetrieve": []string{"foo", "foo"}})

	assert.Equal(t, []string{"objectID", "foo"}, opts["attributesToRetrieve"])
}

func TestBuildOptionsFiltersDeduped(t *testing.T) {
	opts := BuildOptions(Params{"filters": "prop:foo prop:foo"})

	assert.Equal(t, "prop:foo", opts["filters"])
}

func TestBuildOptionsObjectIDFilter(t *testing.T) {
	opts := BuildOptions(Params{"objectID": "abc"})

	assert.Equal(t, "objectID:abc", opts["filters"])
}

func TestBuildOptionsTimestampFilters(t *testing.T) {
	opts := BuildOptions(Params{"created_at_max": int64(1000)})
	assert.Equal(t, "created_at < 1000", opts["filters"])

	opts = BuildOptions(Params{"created_at_min": "1000"})
	assert.Equal(t, "created_at > 1000", opts["filters"])

	opts = BuildOptions(Params{"updated_at_max": 1000})
	assert.Equal(t, "updated_at < 1000", opts["filters"])

	opts = BuildOptions(Params{"updated_at_min": 1000})
	assert.Equal(t, "updated_at > 1000", opts["filters"])
}

func TestBuildOptionsFiltersCombined(t *testing.T) {
	opts := BuildOptions(Params{
		"filters":  "role:admin",
		"objectID": "abc",
	})

	assert.Equal(t, "role:admin objectID:abc", opts["filters"])
}

func TestBuildOptionsHitsPerPageClamped(t *testing.T) {
	// 假值省略，不夹逼成 1
	opts := BuildOptions(Params{"hitsPerPage": "0"})
	assert.NotContains(t, opts, "hitsPerPage")

	opts = BuildOptions(Params{"hitsPerPage": "25"})
	assert.Equal(t, 25, opts["hitsPerPage"])

	opts = BuildOptions(Params{"hitsPerPage": "-3"})
	assert.Equal(t, 1, opts["hitsPerPage"])
}

func TestBuildOptionsLengthDefaultsOffset(t *testing.T) {
	opts := BuildOptions(Params{"length": "-2"})

	assert.Equal(t, 1, opts["length"])
	// length 单独出现时 offset 默认 0
	assert.Equal(t, 0, opts["offset"])
}

func TestBuildOptionsLengthUpperClamp(t *testing.T) {
	opts := BuildOptions(Params{"length": "5000"})

	assert.Equal(t, 1000, opts["length"])
}

func TestBuildOptionsExplicitZeroOffsetPreserved(t *testing.T) {
	opts := BuildOptions(Params{"offset": "0"})

	require.Contains(t, opts, "offset")
	assert.Equal(t, 0, opts["offset"])
}

func TestBuildOptionsNegativeOffsetClamped(t *testing.T) {
	opts := BuildOptions(Params{"offset": "-1"})

	assert.Equal(t, 0, opts["offset"])
}

func TestBuildOptionsPage(t *testing.T) {
	opts := BuildOptions(Params{"page": -1})
	assert.Equal(t, 0, opts["page"])

	opts = BuildOptions(Params{"page": "3"})
	assert.Equal(t, 3, opts["page"])

	// 假值省略
	opts = BuildOptions(Params{"page": 0})
	assert.NotContains(t, opts, "page")
}

func TestBuildOptionsQueryLowercased(t *testing.T) {
	opts := BuildOptions(Params{"query": "QUERYSTRING"})
	assert.Equal(t, "querystring", opts["query"])

	opts = BuildOptions(Params{"query": ""})
	assert.NotContains(t, opts, "query")
}

func TestBuildOptionsDttoaAlias(t *testing.T) {
	opts := BuildOptions(Params{"dttoa": []string{"foo", "foo"}})

	assert.Equal(t, []string{"foo"}, opts["disableTypoToleranceOnAttributes"])
}

func TestBuildOptionsOptionalWordsDeduped(t *testing.T) {
	opts := BuildOptions(Params{"optionalWords": []string{"a", "b", "a"}})

	assert.Equal(t, []string{"a", "b"}, opts["optionalWords"])
}

func TestBuildOptionsPassthrough(t *testing.T) {
	opts := BuildOptions(Params{"userToken": "u1", "decompoundQuery": true})

	assert.Equal(t, "u1", opts["userToken"])
	assert.Equal(t, true, opts["decompoundQuery"])
}

func TestBuildOptionsExtraMerge(t *testing.T) {
	opts := BuildOptions(
		Params{"attributesToRetrieve": []string{"email"}, "query": "A", "userToken": "u1"},
		Params{"attributesToRetrieve": []string{"first_name"}, "userToken": "u2"},
	)

	// 数组拼接，标量以 extra 为准
	assert.Equal(t, []string{"objectID", "email", "first_name"}, opts["attributesToRetrieve"])
	assert.Equal(t, "u2", opts["userToken"])
	assert.Equal(t, "a", opts["query"])
}

func TestIsIndexNotFound(t *testing.T) {
	assert.True(t, IsIndexNotFound(NewIndexNotFound("production_users")))
	assert.False(t, IsIndexNotFound(&APIError{Status: 404, Message: "record missing"}))
	assert.False(t, IsIndexNotFound(&APIError{Status: 500, Message: "Index x does not exist"}))
	assert.False(t, IsIndexNotFound(assert.AnError))
}
