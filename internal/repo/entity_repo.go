package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-users-api/internal/apperr"
	"go-users-api/internal/store"
	"go-users-api/internal/validation"
)

// readonly 基础只读字段：客户端给了也会被丢弃，只能由仓储写入
var baseReadonlyFields = []string{"created_at", "id", "updated_at"}

// EntityRepo 包一层文档集合：补身份、打时间戳、把底层错误翻译成统一异常。
// 所有公开操作要么返回值，要么返回 *apperr.Exception，绝不透出原生错误。
type EntityRepo struct {
	coll  store.Collection
	rules validation.Rules

	// 可注入，测试用
	now   func() int64
	newID func() string
}

func NewEntityRepo(coll store.Collection, rules validation.Rules) *EntityRepo {
	return &EntityRepo{
		coll:  coll,
		rules: rules,
		now:   func() int64 { return time.Now().UnixMilli() },
		newID: uuid.NewString,
	}
}

// Collection 底层集合（搜索层要用物理名）
func (r *EntityRepo) Collection() store.Collection { return r.coll }

// Create 新建实体：补 UUID 与 created_at，updated_at 置 null。
// 客户端带来的 created_at/updated_at 一律覆盖；id 为空才生成。
func (r *EntityRepo) Create(ctx context.Context, dto store.Document) (store.Document, error) {
	doc := cloneDoc(dto)

	id, _ := doc["id"].(string)
	if strings.TrimSpace(id) == "" {
		id = r.newID()
	}
	doc["id"] = id
	doc["created_at"] = r.now()
	doc["updated_at"] = nil

	if errs := validation.Check(doc, r.rules); len(errs) > 0 {
		message := fmt.Sprintf("Validation errors: [%s]", strings.Join(validation.Properties(errs), ","))
		return nil, apperr.BadRequest(message, store.Document{"dto": doc}).WithErrors(errs)
	}

	if err := r.coll.Create(ctx, doc); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			message := fmt.Sprintf("Entity with id %q already exists", id)
			return nil, apperr.BadRequest(message, store.Document{"dto": doc}).
				WithErrors(map[string]any{"id": id})
		}
		return nil, apperr.Internal(err.Error(), store.Document{"dto": doc})
	}

	return doc, nil
}

// Get 按 id 取实体；未命中报 404
func (r *EntityRepo) Get(ctx context.Context, id string) (store.Document, error) {
	found, err := r.coll.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err.Error(), store.Document{"id": id})
	}
	if found == nil {
		message := fmt.Sprintf("Entity with id %q does not exist", id)
		return nil, apperr.NotFound(message, nil).WithErrors(map[string]any{"id": id})
	}
	return found, nil
}

// Delete 先 Get 再删：实体不存在时必须失败，绝不静默成功
func (r *EntityRepo) Delete(ctx context.Context, id string) error {
	found, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.coll.Delete(ctx, found["id"].(string)); err != nil {
		return apperr.Internal(err.Error(), store.Document{"id": id})
	}
	return nil
}

// Patch 局部更新：剥掉只读字段，合并存量数据，刷新 updated_at
func (r *EntityRepo) Patch(ctx context.Context, id string, dto store.Document, extraReadonly ...string) (store.Document, error) {
	entity, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	readonly := map[string]struct{}{}
	for _, f := range baseReadonlyFields {
		readonly[f] = struct{}{}
	}
	for _, f := range extraReadonly {
		readonly[f] = struct{}{}
	}

	merged := cloneDoc(entity)
	for k, v := range dto {
		if _, ro := readonly[k]; ro {
			continue
		}
		merged[k] = v
	}
	merged["updated_at"] = r.now()

	if errs := validation.Check(merged, r.rules); len(errs) > 0 {
		message := fmt.Sprintf("Validation errors: [%s]", strings.Join(validation.Properties(errs), ","))
		return nil, apperr.BadRequest(message, store.Document{"id": id, "dto": merged}).WithErrors(errs)
	}

	if err := r.coll.Update(ctx, merged); err != nil {
		return nil, apperr.Internal(err.Error(), store.Document{"id": id, "dto": merged})
	}

	return merged, nil
}

// FindAll 全量读集合（搜索层的同步源）
func (r *EntityRepo) FindAll(ctx context.Context) ([]store.Document, error) {
	docs, err := r.coll.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err.Error(), nil)
	}
	return docs, nil
}

func cloneDoc(doc store.Document) store.Document {
	out := make(store.Document, len(doc)+3)
	for k, v := range doc {
		out[k] = v
	}
	return out
}
