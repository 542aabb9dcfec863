package users

import "go-users-api/internal/store"

// CreateUserDTO 创建用户的请求体
type CreateUserDTO struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// Document 没给口令就不落 password 键，和仓储层的可选口令契约对齐
func (d CreateUserDTO) Document() store.Document {
	doc := store.Document{
		"email":      d.Email,
		"first_name": d.FirstName,
		"last_name":  d.LastName,
	}
	if d.Password != "" {
		doc["password"] = d.Password
	}
	return doc
}

// PatchUserDTO 局部更新：只下发出现过的键，所以保持弱类型。
// 只读字段由仓储剥除，这里不做过滤。
type PatchUserDTO = store.Document

// LoginDTO 凭据校验请求体
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
