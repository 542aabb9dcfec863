package validation

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"

	"go-users-api/internal/apperr"
)

// Rules 字段名 -> validator tag 的声明式 schema
type Rules map[string]any

var validate = validator.New()

// IsEmail 单值 email 校验（过滤子句生成等旁路场景用）
func IsEmail(s string) bool {
	return s != "" && validate.Var(s, "email") == nil
}

// Check 对文档执行 schema 校验，返回字段级错误列表；通过则返回 nil。
// 只校验 rules 中声明的字段，文档里的多余字段不会被拒绝。
func Check(doc map[string]any, rules Rules) []apperr.FieldError {
	if len(rules) == 0 {
		return nil
	}

	raw := validate.ValidateMap(doc, map[string]any(rules))
	if len(raw) == 0 {
		return nil
	}

	// map 遍历无序，排序保证错误列表稳定
	fields := make([]string, 0, len(raw))
	for f := range raw {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	out := make([]apperr.FieldError, 0, len(raw))
	for _, field := range fields {
		err := raw[field]
		ferr := apperr.FieldError{Field: field}
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			ferr.Rule = verrs[0].Tag()
			ferr.Message = fmt.Sprintf("%s failed on the '%s' rule", field, verrs[0].Tag())
		} else if e, ok := err.(error); ok {
			ferr.Message = e.Error()
		}
		out = append(out, ferr)
	}
	return out
}

// Properties 错误列表里的字段名（用于构造 "Validation errors: [...]" 文案）
func Properties(errs []apperr.FieldError) []string {
	props := make([]string, 0, len(errs))
	for _, e := range errs {
		props = append(props, e.Field)
	}
	return props
}
