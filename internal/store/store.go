package store

import (
	"context"
	"errors"
)

// 文档存储的哨兵错误，仓储层据此翻译成对外异常
var (
	ErrNotFound     = errors.New("store: document not found")
	ErrDuplicateKey = errors.New("store: document with id already exists")
)

// Document 一条持久化记录（扁平 JSON 文档）
type Document = map[string]any

// Collection 单个文档集合的访问契约。
// FindByID 未命中返回 (nil, nil)；Create 主键冲突返回 ErrDuplicateKey。
type Collection interface {
	Name() string
	Create(ctx context.Context, doc Document) error
	FindByID(ctx context.Context, id string) (Document, error)
	Update(ctx context.Context, doc Document) error
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]Document, error)
}

// Client 按逻辑名打开集合；实现负责把环境前缀拼进物理名
type Client interface {
	Collection(name string) (Collection, error)
}
