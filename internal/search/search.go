package search

import (
	"context"
	"fmt"
	"strings"
)

// Params URL 查询串解析出来的扁平参数表；未识别的键原样透传为原生搜索选项
type Params = map[string]any

// Options 翻译后的引擎原生搜索选项
type Options = map[string]any

// Object 写入索引的反范式对象（实体 + objectID）
type Object = map[string]any

// Settings 每个索引的静态设置
type Settings struct {
	AttributesForFaceting []string `json:"attributesForFaceting,omitempty"`
	SearchableAttributes  []string `json:"searchableAttributes,omitempty"`
}

// Result 搜索响应（只保留白名单字段）
type Result struct {
	Hits        []Object `json:"hits"`
	HitsPerPage int      `json:"hitsPerPage"`
	Index       string   `json:"index"`
	Length      int      `json:"length,omitempty"`
	NbHits      int      `json:"nbHits"`
	NbPages     int      `json:"nbPages"`
	Offset      int      `json:"offset,omitempty"`
	Page        int      `json:"page"`
	Query       string   `json:"query"`
	UserData    any      `json:"userData,omitempty"`
}

// Index 搜索索引客户端契约
type Index interface {
	Name() string
	SetSettings(ctx context.Context, settings Settings) error
	ClearObjects(ctx context.Context) error
	SaveObjects(ctx context.Context, objects []Object) error
	Search(ctx context.Context, query string, opts Options) (*Result, error)
}

// Client 按名字初始化/获取索引
type Client interface {
	InitIndex(name string) Index
}

// APIError 搜索服务端返回的原生错误（带 HTTP 状态）
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search: %d %s", e.Status, e.Message)
}

// NewIndexNotFound 未创建索引的标准错误形态
func NewIndexNotFound(name string) *APIError {
	return &APIError{Status: 404, Message: fmt.Sprintf("Index %s does not exist", name)}
}

// IsIndexNotFound 识别 "索引不存在"：404 且消息形如 "Index ... does not exist"。
// 该错误按契约等价于零命中，不算失败。
func IsIndexNotFound(err error) bool {
	e, ok := err.(*APIError)
	if !ok || e.Status != 404 {
		return false
	}
	msg := strings.ToLower(e.Message)
	return strings.HasPrefix(msg, "index") && strings.HasSuffix(msg, "does not exist")
}

// IndexSettings 逻辑索引名 -> 静态设置
var IndexSettings = map[string]Settings{
	"users": {
		AttributesForFaceting: []string{"email", "id", "first_name", "last_name", "objectID"},
	},
}
