package users

import (
	"context"
	"fmt"
	"strings"

	"go-users-api/internal/apperr"
	"go-users-api/internal/repo"
	"go-users-api/internal/search"
	"go-users-api/internal/store"
	"go-users-api/internal/validation"
	"go-users-api/pkg/utils"
)

// CollectionName 逻辑集合名（物理名/索引名都会带环境前缀）
const CollectionName = "users"

// Rules 用户文档的 schema（源自创建/补丁 DTO 的声明式校验）
var Rules = validation.Rules{
	"email":      "required,email",
	"first_name": "required",
	"last_name":  "required",
	"password":   "omitempty,min=8",
}

// Repository 在搜索仓储之上追加用户域的两条横切约束：
// email 唯一性（备用键），以及写入前的口令散列。
type Repository struct {
	*repo.SearchRepo
}

// NewRepository 组装 users 集合的完整仓储链
func NewRepository(ctx context.Context, sc store.Client, ic search.Client, env string, clear bool) (*Repository, error) {
	coll, err := sc.Collection(CollectionName)
	if err != nil {
		return nil, apperr.Internal(err.Error(), nil)
	}
	base := repo.NewEntityRepo(coll, Rules)
	sr, err := repo.NewSearchRepo(ctx, base, ic, env, CollectionName, "id", clear)
	if err != nil {
		return nil, err
	}
	return &Repository{SearchRepo: sr}, nil
}

// searchParams 用户索引专属的参数翻译，叠在通用翻译之前：
// email（须是合法地址）转成等值过滤，first_name/last_name 转成带引号的
// 等值过滤，email 永远追加进返回字段
func searchParams(params search.Params) search.Params {
	scoped := make(search.Params, len(params))
	for k, v := range params {
		scoped[k] = v
	}

	var clauses []string
	if f, ok := scoped["filters"].(string); ok && f != "" {
		clauses = append(clauses, f)
	}
	if email, _ := scoped[FieldEmail].(string); validation.IsEmail(email) {
		clauses = append(clauses, FieldEmail+":"+email)
	}
	delete(scoped, FieldEmail)
	for _, field := range []string{"first_name", "last_name"} {
		if v, _ := scoped[field].(string); v != "" {
			clauses = append(clauses, field+`:"`+v+`"`)
		}
		delete(scoped, field)
	}
	if len(clauses) > 0 {
		scoped["filters"] = strings.Join(clauses, " ")
	}

	switch v := scoped["attributesToRetrieve"].(type) {
	case nil:
		scoped["attributesToRetrieve"] = []string{FieldEmail}
	case string:
		scoped["attributesToRetrieve"] = []string{v, FieldEmail}
	case []string:
		scoped["attributesToRetrieve"] = append(append([]string{}, v...), FieldEmail)
	case []any:
		scoped["attributesToRetrieve"] = append(append([]any{}, v...), FieldEmail)
	}
	return scoped
}

// FindAll 搜索前先过用户域的参数翻译
func (r *Repository) FindAll(ctx context.Context, params search.Params) (*search.Result, error) {
	return r.SearchRepo.FindAll(ctx, searchParams(params))
}

func (r *Repository) FindOneByID(ctx context.Context, id string, params search.Params) (search.Object, error) {
	return r.SearchRepo.FindOneByID(ctx, id, searchParams(params))
}

// FindOneByEmail 按备用键查用户。shouldExist 翻转存在性断言：
// true 时查不到报 404，false 时查到了报 409，其余情况返回命中或 nil。
// 唯一一个存在/不存在分支的实现点，创建、补丁、登录都走它。
func (r *Repository) FindOneByEmail(ctx context.Context, email string, params search.Params, shouldExist bool) (search.Object, error) {
	scoped := search.Params{"attributesToRetrieve": []string{"*"}}
	for k, v := range params {
		scoped[k] = v
	}
	scoped[FieldEmail] = email

	res, err := r.FindAll(ctx, scoped)
	if err != nil {
		return nil, err
	}

	var user search.Object
	if len(res.Hits) > 0 && strings.EqualFold(fmt.Sprint(res.Hits[0]["email"]), email) {
		user = res.Hits[0]
	}

	if user == nil && shouldExist {
		message := fmt.Sprintf("User with email %q does not exist", email)
		return nil, apperr.NotFound(message, store.Document{"params": params}).
			WithErrors(map[string]any{"email": email})
	}
	if user != nil && !shouldExist {
		message := fmt.Sprintf("User with email %q already exists", email)
		return nil, apperr.Conflict(message, store.Document{"params": params}).
			WithErrors(map[string]any{"email": email})
	}
	return user, nil
}

// Create 唯一性检查在前，散列在后：重复 email 的请求不触发散列也不打到存储
func (r *Repository) Create(ctx context.Context, dto store.Document) (store.Document, error) {
	email, _ := dto[FieldEmail].(string)
	if _, err := r.FindOneByEmail(ctx, email, nil, false); err != nil {
		return nil, err
	}

	doc, err := hashSecret(dto)
	if err != nil {
		return nil, err
	}
	return r.SearchRepo.Create(ctx, doc)
}

// Patch email 变更时做唯一性检查；补丁里带了口令就重新散列
func (r *Repository) Patch(ctx context.Context, id string, dto store.Document, extraReadonly ...string) (store.Document, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if email, ok := dto[FieldEmail].(string); ok {
		if !strings.EqualFold(email, fmt.Sprint(current[FieldEmail])) {
			if _, err := r.FindOneByEmail(ctx, email, nil, false); err != nil {
				return nil, err
			}
		}
	}

	doc, err := hashSecret(dto)
	if err != nil {
		return nil, err
	}
	return r.SearchRepo.Patch(ctx, id, doc, extraReadonly...)
}

// 字段名常量（文档键）
const (
	FieldEmail    = "email"
	FieldPassword = "password"
)

// hashSecret 口令字段非空则换成单向散列；失败时错误负载必须剥掉明文
func hashSecret(dto store.Document) (store.Document, error) {
	pw, ok := dto[FieldPassword].(string)
	if !ok || strings.TrimSpace(pw) == "" {
		return dto, nil
	}

	doc := make(store.Document, len(dto))
	for k, v := range dto {
		doc[k] = v
	}

	hashed, err := utils.HashPassword(pw)
	if err != nil {
		stripped := make(store.Document, len(doc))
		for k, v := range doc {
			if k != FieldPassword {
				stripped[k] = v
			}
		}
		return nil, apperr.Internal(err.Error(), store.Document{"dto": stripped})
	}
	doc[FieldPassword] = hashed
	return doc, nil
}
