package models

import (
	"time"
)

// Report 报告快照，report_data 在生成时固定，之后只允许修改管理员文字
type Report struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	ReportType   string    `gorm:"type:varchar(20);not null" json:"report_type"` // week, month, quarter, year
	StartDate    string    `gorm:"type:varchar(10)" json:"start_date"`
	EndDate      string    `gorm:"type:varchar(10)" json:"end_date"`
	PublishedAt  time.Time `gorm:"index" json:"published_at"`
	ReportData   Summary   `gorm:"type:text;serializer:json" json:"report_data"`
	AdminSummary string    `gorm:"type:text" json:"admin_summary"`
	AdminAdvice  string    `gorm:"type:text" json:"admin_advice"`
	AdminID      *uint     `json:"admin_id"`
}

func (Report) TableName() string {
	return "reports"
}
