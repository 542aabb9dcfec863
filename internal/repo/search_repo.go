package repo

import (
	"context"
	"fmt"

	"go-users-api/internal/apperr"
	"go-users-api/internal/search"
	"go-users-api/internal/store"
)

// SearchRepo 在 EntityRepo 之上挂一面搜索索引镜像。
// 索引是可丢弃、可重建的派生缓存：每次查询前都会用实体集合全量重建，
// 一致性优先于读延迟（低流量管理型 API 的取舍）。
type SearchRepo struct {
	*EntityRepo

	index     search.Index
	indexName string
	oidk      string // objectID 取值字段
}

// NewSearchRepo 初始化索引：物理名 = <env>_<name>，套用静态设置，
// clear=true 时随后清空索引对象（测试隔离等需要已知空态的场景）。
func NewSearchRepo(ctx context.Context, base *EntityRepo, client search.Client, env, name, oidk string, clear bool) (*SearchRepo, error) {
	if oidk == "" {
		oidk = "id"
	}
	indexName := env + "_" + name

	index := client.InitIndex(indexName)
	if err := index.SetSettings(ctx, search.IndexSettings[name]); err != nil {
		return nil, apperr.Internal(err.Error(), store.Document{"index_name": indexName})
	}
	if clear {
		if err := index.ClearObjects(ctx); err != nil {
			return nil, apperr.Internal(err.Error(), store.Document{"index_name": indexName})
		}
	}

	return &SearchRepo{EntityRepo: base, index: index, indexName: indexName, oidk: oidk}, nil
}

// IndexName 带环境前缀的索引名
func (r *SearchRepo) IndexName() string { return r.indexName }

// Objects 实体集合的全量索引视图：每条记录补上 objectID
func (r *SearchRepo) Objects(ctx context.Context) ([]search.Object, error) {
	docs, err := r.coll.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err.Error(), store.Document{
			"index_name": r.indexName,
			"oidk":       r.oidk,
		})
	}

	objects := make([]search.Object, 0, len(docs))
	for _, doc := range docs {
		obj := cloneDoc(doc)
		obj["objectID"] = fmt.Sprint(doc[r.oidk])
		objects = append(objects, obj)
	}
	return objects, nil
}

// Resync 用实体集合全量覆盖索引，返回写入的对象数
func (r *SearchRepo) Resync(ctx context.Context) (int, error) {
	objects, err := r.Objects(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.index.SaveObjects(ctx, objects); err != nil {
		return 0, r.searchError(err, nil)
	}
	return len(objects), nil
}

// ClearIndex 清空索引对象（实体集合不受影响，下次查询会自动重建）
func (r *SearchRepo) ClearIndex(ctx context.Context) error {
	if err := r.index.ClearObjects(ctx); err != nil {
		return apperr.Internal(err.Error(), store.Document{"index_name": r.indexName})
	}
	return nil
}

// FindAll 全量重建索引后执行搜索。
// 索引还不存在时按契约折算成零命中，不算错误。
func (r *SearchRepo) FindAll(ctx context.Context, params search.Params) (*search.Result, error) {
	opts := search.BuildOptions(params)

	// 全量覆盖写，写完才查
	if _, err := r.Resync(ctx); err != nil {
		return nil, err
	}

	query, _ := opts["query"].(string)
	res, err := r.index.Search(ctx, query, opts)
	if err != nil {
		if search.IsIndexNotFound(err) {
			return &search.Result{
				Hits:  []search.Object{},
				Index: r.indexName,
				Query: query,
			}, nil
		}
		return nil, r.searchError(err, opts)
	}
	return res, nil
}

// FindOneByID 先以实体库为准确认存在（避免索引滞后造成的假 404），
// 再通过 objectID 过滤取回索引对象。
func (r *SearchRepo) FindOneByID(ctx context.Context, objectID string, params search.Params) (search.Object, error) {
	if _, err := r.Get(ctx, objectID); err != nil {
		return nil, err
	}

	scoped := search.Params{"objectID": objectID}
	for _, k := range []string{"attributesToRetrieve", "userToken"} {
		if v, ok := params[k]; ok {
			scoped[k] = v
		}
	}

	res, err := r.FindAll(ctx, scoped)
	if err != nil {
		return nil, err
	}
	if len(res.Hits) == 0 {
		message := fmt.Sprintf("Entity with id %q does not exist", objectID)
		return nil, apperr.NotFound(message, nil).WithErrors(map[string]any{"id": objectID})
	}
	return res.Hits[0], nil
}

// searchError 索引服务的原生错误 -> 统一异常（保留原状态码）
func (r *SearchRepo) searchError(err error, opts search.Options) *apperr.Exception {
	data := store.Document{"index_name": r.indexName, "options": opts}
	if apiErr, ok := err.(*search.APIError); ok {
		return apperr.New(apiErr.Status, apiErr.Message, data)
	}
	return apperr.Internal(err.Error(), data)
}
