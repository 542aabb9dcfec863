package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userRules = Rules{
	"email":      "required,email",
	"first_name": "required",
	"last_name":  "required",
	"password":   "omitempty,min=8",
}

func TestCheckPasses(t *testing.T) {
	doc := map[string]any{
		"email":      "a@x.com",
		"first_name": "A",
		"last_name":  "B",
		"password":   "Secret1234!",
		"id":         "ignored-extra-field",
	}
	assert.Nil(t, Check(doc, userRules))
}

func TestCheckCollectsFieldErrors(t *testing.T) {
	doc := map[string]any{
		"email":      "not-an-email",
		"first_name": "",
		"last_name":  "B",
	}
	errs := Check(doc, userRules)
	require.Len(t, errs, 2)

	// 排序后的稳定顺序
	assert.Equal(t, "email", errs[0].Field)
	assert.Equal(t, "email", errs[0].Rule)
	assert.Equal(t, "first_name", errs[1].Field)
	assert.Equal(t, "required", errs[1].Rule)

	assert.Equal(t, []string{"email", "first_name"}, Properties(errs))
}

func TestCheckMissingRequired(t *testing.T) {
	errs := Check(map[string]any{"last_name": "B"}, userRules)
	require.NotEmpty(t, errs)

	props := Properties(errs)
	assert.Contains(t, props, "email")
	assert.Contains(t, props, "first_name")
}

func TestCheckOptionalFieldSkippedWhenAbsent(t *testing.T) {
	doc := map[string]any{"email": "a@x.com", "first_name": "A", "last_name": "B"}
	assert.Nil(t, Check(doc, userRules))
}

func TestCheckNoRules(t *testing.T) {
	assert.Nil(t, Check(map[string]any{"anything": 1}, nil))
}
