package model

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// RoleAdmin 允许刷新数据和管理账号的角色
const RoleAdmin = "admin"

// User 用户结构体 (用于后台登录认证)
type User struct {
	gorm.Model
	Username string         `json:"username" gorm:"uniqueIndex;not null"` // 用户名唯一且不为空
	Password string         `json:"-" gorm:"not null"`                    // 加密后的密码
	Email    string         `json:"email"`
	Roles    pq.StringArray `json:"roles" gorm:"type:text[]"`
}

// HasRole 判断用户是否拥有某个角色
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
