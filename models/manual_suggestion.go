package models

import "time"

// ManualSuggestion 管理员写给用户的建议，只追加不修改
type ManualSuggestion struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	AdminID   uint      `gorm:"not null" json:"admin_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (ManualSuggestion) TableName() string {
	return "manual_suggestions"
}
