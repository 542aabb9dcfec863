package domain

import "encoding/json"

// User 用户文档的强类型视图（HTTP 层响应用；仓储层按文档操作）
type User struct {
	ID        string `json:"id"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt *int64 `json:"updated_at"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// bcrypt 散列，绝不存明文
	Password string `json:"password,omitempty"`
}

// UserFromDocument JSON 往返解码；未知字段丢弃
func UserFromDocument(doc map[string]any) User {
	var u User
	b, _ := json.Marshal(doc)
	_ = json.Unmarshal(b, &u)
	return u
}

// Sanitized 去掉散列后的对外形态
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
