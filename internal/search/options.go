package search

import (
	"fmt"
	"strconv"
	"strings"
)

// maxSafe JSON 安全整数上界（2^53 - 1）
const maxSafe = int64(1)<<53 - 1

// maxLength length 参数的硬上限
const maxLength = 1000

// 响应字段白名单
var responseFields = []string{
	"hits", "hitsPerPage", "index", "length", "nbHits",
	"nbPages", "offset", "page", "query", "userData",
}

// defaultOptions 默认搜索选项
func defaultOptions() Options {
	return Options{
		"attributesToHighlight": []string{},
		"attributesToRetrieve":  []string{"objectID"},
		"attributesToSnippet":   []string{},
	}
}

// 已识别的参数键；其余键直接透传
var reservedKeys = map[string]struct{}{
	"attributesToRetrieve":             {},
	"disableTypoToleranceOnAttributes": {},
	"dttoa":                            {},
	"filters":                          {},
	"hitsPerPage":                      {},
	"length":                           {},
	"objectID":                         {},
	"offset":                           {},
	"optionalWords":                    {},
	"page":                             {},
	"query":                            {},
	"created_at_min":                   {},
	"created_at_max":                   {},
	"updated_at_min":                   {},
	"updated_at_max":                   {},
}

// BuildOptions 把通用查询参数翻译成引擎原生选项（纯函数）。
// extra 被当作另一份参数递归规整后深合并：数组字段拼接，标量以 extra 为准。
func BuildOptions(params Params, extra ...Params) Options {
	if params == nil {
		params = Params{}
	}

	opts := defaultOptions()

	// 未识别键透传，覆盖默认值
	for k, v := range params {
		if _, reserved := reservedKeys[k]; !reserved {
			opts[k] = v
		}
	}

	// attributesToRetrieve：默认集 + 调用方列表，按首次出现去重
	fields := toStrings(params["attributesToRetrieve"])
	opts["attributesToRetrieve"] = uniqStrings(append([]string{"objectID"}, fields...))

	// dttoa / optionalWords：给了才发，且去重；不发空数组
	dttoa := params["disableTypoToleranceOnAttributes"]
	if dttoa == nil {
		dttoa = params["dttoa"]
	}
	if vals := toStrings(dttoa); len(vals) > 0 {
		opts["disableTypoToleranceOnAttributes"] = uniqStrings(vals)
	}
	if vals := toStrings(params["optionalWords"]); len(vals) > 0 {
		opts["optionalWords"] = uniqStrings(vals)
	}

	// filters：调用方表达式按单空格拆子句，再追加生成子句，去重后重组
	clauses := strings.Split(str(params["filters"]), " ")
	if oid := str(params["objectID"]); oid != "" {
		clauses = append(clauses, "objectID:"+oid)
	}
	if n, ok := parseNumber(params["created_at_max"]); ok {
		clauses = append(clauses, "created_at < "+formatNumber(n))
	}
	if n, ok := parseNumber(params["created_at_min"]); ok {
		clauses = append(clauses, "created_at > "+formatNumber(n))
	}
	if n, ok := parseNumber(params["updated_at_max"]); ok {
		clauses = append(clauses, "updated_at < "+formatNumber(n))
	}
	if n, ok := parseNumber(params["updated_at_min"]); ok {
		clauses = append(clauses, "updated_at > "+formatNumber(n))
	}
	opts["filters"] = strings.TrimSpace(strings.Join(uniqStrings(clauses), " "))

	// 分页参数：JSON-number 解析 + 夹逼，假值一律省略
	if n, ok := parseNumber(params["hitsPerPage"]); ok && n != 0 {
		opts["hitsPerPage"] = clampInt(n, 1, maxSafe)
	}
	_, hasOffset := params["offset"]
	if n, ok := parseNumber(params["length"]); ok && n != 0 {
		opts["length"] = clampInt(n, 1, maxLength)
		// 给了 length 没给 offset：从头取 N 条
		if !hasOffset {
			opts["offset"] = 0
		}
	}
	if hasOffset {
		if n, ok := parseNumber(params["offset"]); ok {
			// 显式的 0 必须保留，不能按 "假值省略" 处理
			opts["offset"] = clampInt(n, 0, maxSafe)
		}
	}
	if n, ok := parseNumber(params["page"]); ok && n != 0 {
		opts["page"] = clampInt(n, 0, maxSafe)
	}

	// query：非空则转小写
	if q := str(params["query"]); q != "" {
		opts["query"] = strings.ToLower(q)
	}

	if len(extra) > 0 && extra[0] != nil {
		return mergeOptions(opts, BuildOptions(extra[0]))
	}
	return opts
}

// ResponseFields 白名单副本
func ResponseFields() []string {
	return append([]string(nil), responseFields...)
}

// mergeOptions 深合并：数组拼接（随后去重），标量 src 覆盖 dst
func mergeOptions(dst, src Options) Options {
	for k, sv := range src {
		dv, exists := dst[k]
		if !exists {
			dst[k] = sv
			continue
		}
		da, dok := dv.([]string)
		sa, sok := sv.([]string)
		if dok && sok {
			dst[k] = uniqStrings(append(da, sa...))
			continue
		}
		dst[k] = sv
	}
	return dst
}

func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// toStrings 数组参数的宽松解码：[]string / []any / 单个字符串
func toStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, str(e))
		}
		return out
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	default:
		return []string{str(v)}
	}
}

func uniqStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// parseNumber JSON-number 语义的数值解析；nil 或解析失败返回 false
func parseNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func clampInt(f float64, lo, hi int64) int {
	n := int64(f)
	if n < lo {
		n = lo
	}
	if n > hi {
		n = hi
	}
	return int(n)
}
