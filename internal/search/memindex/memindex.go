package memindex

import (
	"context"
	"sync"

	"go-users-api/internal/search"
)

// Client 进程内搜索索引。测试替身 + 本地开发用的 "memory" provider。
// 语义对齐托管服务：索引在第一次写入对象之前不存在，搜索会得到 404。
type Client struct {
	mu      sync.Mutex
	indexes map[string]*index
}

func New() *Client {
	return &Client{indexes: map[string]*index{}}
}

func (c *Client) InitIndex(name string) search.Index {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx, ok := c.indexes[name]; ok {
		return idx
	}
	idx := &index{name: name}
	c.indexes[name] = idx
	return idx
}

type index struct {
	mu       sync.RWMutex
	name     string
	settings search.Settings
	objects  []search.Object
	exists   bool
}

func (i *index) Name() string { return i.name }

func (i *index) SetSettings(_ context.Context, settings search.Settings) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.settings = settings
	return nil
}

func (i *index) ClearObjects(_ context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.objects = nil
	i.exists = false
	return nil
}

// SaveObjects 全量覆盖。空集不落盘，索引保持 "不存在"。
func (i *index) SaveObjects(_ context.Context, objects []search.Object) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if len(objects) == 0 {
		i.objects = nil
		i.exists = false
		return nil
	}
	i.objects = append([]search.Object(nil), objects...)
	i.exists = true
	return nil
}

func (i *index) Search(_ context.Context, query string, opts search.Options) (*search.Result, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if !i.exists {
		return nil, search.NewIndexNotFound(i.name)
	}
	return search.Evaluate(i.name, i.objects, query, opts, i.settings), nil
}
