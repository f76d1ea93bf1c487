package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 用户模型
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Email        *string    `gorm:"type:varchar(120);uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"type:varchar(128);not null" json:"-"`
	Role         string     `gorm:"type:varchar(20);default:user;not null" json:"role"`
	IsActive     bool       `gorm:"default:true;not null" json:"is_active"`
	Gender       string     `gorm:"type:varchar(10)" json:"gender"`
	HeightCM     *float64   `json:"height"`      // 身高(cm)
	WeightKG     *float64   `json:"weight"`      // 体重(kg)
	WeightGoal   *float64   `json:"weight_goal"` // 目标体重
	Avatar       string     `gorm:"type:varchar(255)" json:"avatar"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) GetDisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.Email != nil {
		return *u.Email
	}
	return ""
}
