package apperr

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassName(t *testing.T) {
	assert.Equal(t, "bad-request", ClassName(400))
	assert.Equal(t, "not-authenticated", ClassName(401))
	assert.Equal(t, "not-found", ClassName(404))
	assert.Equal(t, "conflict", ClassName(409))
	assert.Equal(t, "internal-server-error", ClassName(500))

	// 未知状态码按 500 处理
	assert.Equal(t, "internal-server-error", ClassName(999))
}

func TestNewDefaults(t *testing.T) {
	e := New(CodeNotFound, "", nil)

	assert.Equal(t, 404, e.Code)
	assert.Equal(t, "not-found", e.ClassName)
	assert.Equal(t, "Not Found", e.Message)
	assert.NotNil(t, e.Data)
}

func TestNewLiftsErrors(t *testing.T) {
	e := New(CodeConflict, "User already exists", map[string]any{
		"errors": map[string]any{"email": "a@x.com"},
		"params": map[string]any{},
	})

	require.NotNil(t, e.Errors)
	assert.Equal(t, map[string]any{"email": "a@x.com"}, e.Errors)
	_, still := e.Data["errors"]
	assert.False(t, still)
	assert.Contains(t, e.Data, "params")
}

func TestJSONShape(t *testing.T) {
	e := BadRequest("Validation errors: [email]", map[string]any{"dto": map[string]any{}})
	e.WithErrors([]FieldError{{Field: "email", Rule: "email", Message: "email must be valid"}})

	var body map[string]any
	require.NoError(t, json.Unmarshal(e.JSON(), &body))

	assert.EqualValues(t, 400, body["code"])
	assert.Equal(t, "bad-request", body["className"])
	assert.Equal(t, "Validation errors: [email]", body["message"])
	assert.Contains(t, body, "data")
	assert.Contains(t, body, "errors")
}

func TestFrom(t *testing.T) {
	orig := Conflict("exists", nil)
	assert.Same(t, orig, From(orig))

	e := From(errors.New("boom"))
	assert.Equal(t, 500, e.Code)
	assert.Equal(t, "boom", e.Message)

	assert.Nil(t, From(nil))
}
