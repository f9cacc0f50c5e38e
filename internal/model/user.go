package model

import (
	"strings"
	"time"
)

type User struct {
	ID        int       `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DisplayName 優先使用全名，沒有時退回帳號名稱
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Username
}

// Viewer 請求範圍內的觀看者身分；UserID 為 0 表示未登入
type Viewer struct {
	UserID int
}

func (v Viewer) Authenticated() bool {
	return v.UserID > 0
}
