package search

import (
	"sort"
	"strings"
)

// clause 过滤表达式里的一个条件
type clause struct {
	attr string
	op   string // ":" / "<" / ">"
	val  string
}

// parseFilters 解析 BuildOptions 产出的过滤串。
// 子句形如 `attr:value` 或 `attr < n` / `attr > n`（范围子句自带空格）；
// 等值的 value 可以带双引号定界
func parseFilters(filters string) []clause {
	tokens := strings.Fields(filters)
	var out []clause
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if idx := strings.IndexByte(tok, ':'); idx > 0 {
			val := strings.Trim(tok[idx+1:], `"`)
			out = append(out, clause{attr: tok[:idx], op: ":", val: val})
			continue
		}
		if i+2 < len(tokens) && (tokens[i+1] == "<" || tokens[i+1] == ">") {
			out = append(out, clause{attr: tok, op: tokens[i+1], val: tokens[i+2]})
			i += 2
		}
	}
	return out
}

func (c clause) matches(obj Object) bool {
	v, ok := obj[c.attr]
	if !ok {
		return false
	}
	switch c.op {
	case ":":
		return strings.EqualFold(str(v), c.val)
	case "<":
		lhs, lok := parseNumber(v)
		rhs, rok := parseNumber(c.val)
		return lok && rok && lhs < rhs
	case ">":
		lhs, lok := parseNumber(v)
		rhs, rok := parseNumber(c.val)
		return lok && rok && lhs > rhs
	}
	return false
}

// matchesQuery 大小写不敏感的子串匹配；searchable 为空时匹配所有字符串字段
func matchesQuery(obj Object, query string, searchable []string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if len(searchable) > 0 {
		for _, attr := range searchable {
			if s, ok := obj[attr].(string); ok && strings.Contains(strings.ToLower(s), q) {
				return true
			}
		}
		return false
	}
	for _, v := range obj {
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// project attributesToRetrieve 投影；"*" 表示全部，objectID 永远保留
func project(obj Object, attrs []string) Object {
	if len(attrs) == 0 {
		return obj
	}
	for _, a := range attrs {
		if a == "*" {
			return obj
		}
	}
	out := Object{}
	for _, a := range attrs {
		if v, ok := obj[a]; ok {
			out[a] = v
		}
	}
	if v, ok := obj["objectID"]; ok {
		out["objectID"] = v
	}
	return out
}

// Evaluate 在一组索引对象上执行查询（两个索引后端共用的搜索内核）。
// 命中按 objectID 排序保证分页稳定。
func Evaluate(indexName string, objects []Object, query string, opts Options, settings Settings) *Result {
	if opts == nil {
		opts = Options{}
	}

	clauses := parseFilters(str(opts["filters"]))
	attrs := toStrings(opts["attributesToRetrieve"])

	var hits []Object
	for _, obj := range objects {
		if !matchesQuery(obj, query, settings.SearchableAttributes) {
			continue
		}
		ok := true
		for _, c := range clauses {
			if !c.matches(obj) {
				ok = false
				break
			}
		}
		if ok {
			hits = append(hits, obj)
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		return str(hits[i]["objectID"]) < str(hits[j]["objectID"])
	})

	nbHits := len(hits)
	res := &Result{Index: indexName, NbHits: nbHits, Query: query}

	// offset/length 模式优先，否则 page/hitsPerPage
	hitsPerPage := 20
	if n, ok := parseNumber(opts["hitsPerPage"]); ok && n > 0 {
		hitsPerPage = int(n)
	}
	res.HitsPerPage = hitsPerPage
	res.NbPages = (nbHits + hitsPerPage - 1) / hitsPerPage

	if n, ok := parseNumber(opts["length"]); ok && n > 0 {
		length := int(n)
		offset := 0
		if o, ok := parseNumber(opts["offset"]); ok && o > 0 {
			offset = int(o)
		}
		res.Length = length
		res.Offset = offset
		hits = slicePage(hits, offset, length)
	} else {
		page := 0
		if p, ok := parseNumber(opts["page"]); ok && p > 0 {
			page = int(p)
		}
		res.Page = page
		hits = slicePage(hits, page*hitsPerPage, hitsPerPage)
	}

	res.Hits = make([]Object, 0, len(hits))
	for _, h := range hits {
		res.Hits = append(res.Hits, project(h, attrs))
	}
	return res
}

func slicePage(hits []Object, offset, limit int) []Object {
	if offset >= len(hits) {
		return nil
	}
	end := offset + limit
	if end > len(hits) {
		end = len(hits)
	}
	return hits[offset:end]
}
