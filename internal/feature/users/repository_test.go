package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-users-api/internal/apperr"
	"go-users-api/internal/search"
	"go-users-api/internal/search/memindex"
	"go-users-api/internal/store"
	"go-users-api/internal/store/memstore"
	"go-users-api/pkg/utils"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	r, err := NewRepository(context.Background(), memstore.New("test"), memindex.New(), "test", false)
	require.NoError(t, err)
	return r
}

func validDTO() store.Document {
	return store.Document{
		"email":      "a@x.com",
		"first_name": "A",
		"last_name":  "B",
		"password":   "Secret1234!",
	}
}

func TestCreateHashesPassword(t *testing.T) {
	r := newTestRepository(t)

	doc, err := r.Create(context.Background(), validDTO())
	require.NoError(t, err)

	assert.NotEmpty(t, doc["id"])
	assert.IsType(t, int64(0), doc["created_at"])
	assert.Nil(t, doc["updated_at"])

	hashed := doc["password"].(string)
	assert.NotEqual(t, "Secret1234!", hashed)
	assert.True(t, utils.CheckPassword("Secret1234!", hashed))
}

func TestCreateDuplicateEmailConflict(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.Create(ctx, validDTO())
	require.NoError(t, err)

	dto := validDTO()
	dto["first_name"] = "Other"
	_, err = r.Create(ctx, dto)
	require.Error(t, err)

	e := apperr.From(err)
	assert.Equal(t, apperr.CodeConflict, e.Code)
	assert.Equal(t, "conflict", e.ClassName)
	assert.Equal(t, map[string]any{"email": "a@x.com"}, e.Errors)
}

func TestCreateDifferentEmailSucceeds(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.Create(ctx, validDTO())
	require.NoError(t, err)

	dto := validDTO()
	dto["email"] = "b@x.com"
	_, err = r.Create(ctx, dto)
	assert.NoError(t, err)
}

func TestCreateWithoutPasswordSkipsHashing(t *testing.T) {
	r := newTestRepository(t)

	dto := validDTO()
	delete(dto, "password")
	doc, err := r.Create(context.Background(), dto)
	require.NoError(t, err)
	assert.NotContains(t, doc, "password")
}

func TestFindOneByEmailShouldExist(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.FindOneByEmail(ctx, "ghost@x.com", nil, true)
	require.Error(t, err)
	e := apperr.From(err)
	assert.Equal(t, apperr.CodeNotFound, e.Code)
	assert.Equal(t, map[string]any{"email": "ghost@x.com"}, e.Errors)

	_, err = r.Create(ctx, validDTO())
	require.NoError(t, err)

	hit, err := r.FindOneByEmail(ctx, "a@x.com", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", hit["email"])
}

func TestFindOneByEmailShouldNotExist(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	// 不存在且不应存在：nil, nil
	hit, err := r.FindOneByEmail(ctx, "ghost@x.com", nil, false)
	require.NoError(t, err)
	assert.Nil(t, hit)

	_, err = r.Create(ctx, validDTO())
	require.NoError(t, err)

	_, err = r.FindOneByEmail(ctx, "a@x.com", nil, false)
	assert.Equal(t, apperr.CodeConflict, apperr.From(err).Code)
}

func TestPatchEmailChangeConflict(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.Create(ctx, validDTO())
	require.NoError(t, err)

	dto := validDTO()
	dto["email"] = "b@x.com"
	second, err := r.Create(ctx, dto)
	require.NoError(t, err)

	// 改成已占用的邮箱 -> 409
	_, err = r.Patch(ctx, second["id"].(string), store.Document{"email": "a@x.com"})
	assert.Equal(t, apperr.CodeConflict, apperr.From(err).Code)

	// 保持自己的邮箱不算冲突
	patched, err := r.Patch(ctx, second["id"].(string), store.Document{
		"email":      "b@x.com",
		"first_name": "New",
	})
	require.NoError(t, err)
	assert.Equal(t, "New", patched["first_name"])
}

func TestPatchRehashesPassword(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	created, err := r.Create(ctx, validDTO())
	require.NoError(t, err)

	patched, err := r.Patch(ctx, created["id"].(string), store.Document{"password": "NewSecret99!"})
	require.NoError(t, err)

	hashed := patched["password"].(string)
	assert.NotEqual(t, "NewSecret99!", hashed)
	assert.True(t, utils.CheckPassword("NewSecret99!", hashed))
	assert.NotNil(t, patched["updated_at"])
}

func TestPatchKeepsReadonlyFields(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	created, err := r.Create(ctx, validDTO())
	require.NoError(t, err)
	id := created["id"].(string)

	patched, err := r.Patch(ctx, id, store.Document{
		"created_at": int64(1),
		"id":         "x",
		"first_name": "New",
	})
	require.NoError(t, err)

	assert.Equal(t, id, patched["id"])
	assert.Equal(t, "New", patched["first_name"])
	assert.NotEqual(t, int64(1), patched["created_at"])
}

func TestFindAllEmailParamFilters(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.Create(ctx, validDTO())
	require.NoError(t, err)

	dto := validDTO()
	dto["email"] = "b@x.com"
	dto["first_name"] = "Bea"
	_, err = r.Create(ctx, dto)
	require.NoError(t, err)

	// email 参数要收敛成等值过滤，而不是被当成原生选项透传
	res, err := r.FindAll(ctx, search.Params{"email": "b@x.com"})
	require.NoError(t, err)
	require.Equal(t, 1, res.NbHits)
	// email 永远在默认返回字段里
	assert.Equal(t, "b@x.com", res.Hits[0]["email"])
	assert.NotContains(t, res.Hits[0], "first_name")
}

func TestFindAllInvalidEmailParamDropped(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.Create(ctx, validDTO())
	require.NoError(t, err)

	// 非法地址不生成过滤子句
	res, err := r.FindAll(ctx, search.Params{"email": "not-an-email"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.NbHits)
}

func TestFindAllNameParamsFilter(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.Create(ctx, validDTO())
	require.NoError(t, err)

	dto := validDTO()
	dto["email"] = "b@x.com"
	dto["first_name"] = "Bea"
	dto["last_name"] = "Stone"
	_, err = r.Create(ctx, dto)
	require.NoError(t, err)

	res, err := r.FindAll(ctx, search.Params{"first_name": "Bea"})
	require.NoError(t, err)
	require.Equal(t, 1, res.NbHits)
	assert.Equal(t, "b@x.com", res.Hits[0]["email"])

	res, err = r.FindAll(ctx, search.Params{"last_name": "Stone"})
	require.NoError(t, err)
	require.Equal(t, 1, res.NbHits)

	res, err = r.FindAll(ctx, search.Params{"first_name": "Nobody"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.NbHits)
}

func TestFindAllAppendsEmailToRetrieve(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.Create(ctx, validDTO())
	require.NoError(t, err)

	res, err := r.FindAll(ctx, search.Params{"attributesToRetrieve": []string{"first_name"}})
	require.NoError(t, err)
	require.Equal(t, 1, res.NbHits)
	assert.Equal(t, "A", res.Hits[0]["first_name"])
	assert.Equal(t, "a@x.com", res.Hits[0]["email"])
}
