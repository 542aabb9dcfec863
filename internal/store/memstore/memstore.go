package memstore

import (
	"context"
	"encoding/json"
	"sync"

	"go-users-api/internal/store"
)

// Client 进程内文档存储。测试替身 + 本地开发用的 "memory" driver。
type Client struct {
	mu    sync.RWMutex
	colls map[string]*collection
	env   string
}

func New(env string) *Client {
	return &Client{colls: map[string]*collection{}, env: env}
}

func (c *Client) Collection(name string) (store.Collection, error) {
	full := c.env + "_" + name
	c.mu.Lock()
	defer c.mu.Unlock()
	if coll, ok := c.colls[full]; ok {
		return coll, nil
	}
	coll := &collection{name: full, docs: map[string]store.Document{}}
	c.colls[full] = coll
	return coll, nil
}

type collection struct {
	mu   sync.RWMutex
	name string
	docs map[string]store.Document
}

func (c *collection) Name() string { return c.name }

func (c *collection) Create(_ context.Context, doc store.Document) error {
	id, _ := doc["id"].(string)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[id]; exists {
		return store.ErrDuplicateKey
	}
	c.docs[id] = clone(doc)
	return nil
}

func (c *collection) FindByID(_ context.Context, id string) (store.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	return clone(doc), nil
}

func (c *collection) Update(_ context.Context, doc store.Document) error {
	id, _ := doc["id"].(string)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return store.ErrNotFound
	}
	c.docs[id] = clone(doc)
	return nil
}

func (c *collection) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return store.ErrNotFound
	}
	delete(c.docs, id)
	return nil
}

func (c *collection) FindAll(_ context.Context) ([]store.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]store.Document, 0, len(c.docs))
	for _, doc := range c.docs {
		out = append(out, clone(doc))
	}
	return out, nil
}

// clone 深拷贝，禁止调用方篡改存储内的文档
func clone(doc store.Document) store.Document {
	b, _ := json.Marshal(doc)
	var out store.Document
	_ = json.Unmarshal(b, &out)
	return out
}
