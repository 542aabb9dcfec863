package redisindex

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"go-users-api/internal/search"
)

// Client redis 承载的搜索索引：对象放 hash（field=objectID），
// 设置放独立 key。查询在客户端执行（加载 + Evaluate）。
// 对象 hash 不存在时同样报 "索引不存在"，与托管服务行为一致。
type Client struct {
	rdb *redis.Client
}

func New(addr, pass string, db int) *Client {
	return &Client{rdb: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

// NewWithClient 复用外部构造的连接（测试或共享连接池）
func NewWithClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) InitIndex(name string) search.Index {
	return &index{rdb: c.rdb, name: name}
}

type index struct {
	rdb  *redis.Client
	name string
}

func (i *index) Name() string { return i.name }

func (i *index) objectsKey() string  { return "search:" + i.name + ":objects" }
func (i *index) settingsKey() string { return "search:" + i.name + ":settings" }

func (i *index) SetSettings(ctx context.Context, settings search.Settings) error {
	b, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return i.rdb.Set(ctx, i.settingsKey(), b, 0).Err()
}

func (i *index) ClearObjects(ctx context.Context) error {
	return i.rdb.Del(ctx, i.objectsKey()).Err()
}

// SaveObjects 全量覆盖：DEL + HSET 走同一个 pipeline
func (i *index) SaveObjects(ctx context.Context, objects []search.Object) error {
	pipe := i.rdb.TxPipeline()
	pipe.Del(ctx, i.objectsKey())
	for _, obj := range objects {
		oid, _ := obj["objectID"].(string)
		if oid == "" {
			return fmt.Errorf("redisindex: object missing objectID")
		}
		b, err := json.Marshal(obj)
		if err != nil {
			return err
		}
		pipe.HSet(ctx, i.objectsKey(), oid, b)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (i *index) Search(ctx context.Context, query string, opts search.Options) (*search.Result, error) {
	exists, err := i.rdb.Exists(ctx, i.objectsKey()).Result()
	if err != nil {
		return nil, &search.APIError{Status: 500, Message: err.Error()}
	}
	if exists == 0 {
		return nil, search.NewIndexNotFound(i.name)
	}

	raw, err := i.rdb.HGetAll(ctx, i.objectsKey()).Result()
	if err != nil {
		return nil, &search.APIError{Status: 500, Message: err.Error()}
	}

	objects := make([]search.Object, 0, len(raw))
	for _, v := range raw {
		var obj search.Object
		if err := json.Unmarshal([]byte(v), &obj); err != nil {
			return nil, &search.APIError{Status: 500, Message: err.Error()}
		}
		objects = append(objects, obj)
	}

	var settings search.Settings
	if b, err := i.rdb.Get(ctx, i.settingsKey()).Bytes(); err == nil {
		_ = json.Unmarshal(b, &settings)
	}

	return search.Evaluate(i.name, objects, query, opts, settings), nil
}
