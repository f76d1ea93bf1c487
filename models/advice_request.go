package models

import (
	"time"
)

// AdviceStatus 建议请求状态
type AdviceStatus string

const (
	AdvicePending  AdviceStatus = "pending"
	AdviceAnswered AdviceStatus = "answered"
)

// AdviceRequest 用户发起的建议请求，由管理员回复一次
type AdviceRequest struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       uint         `gorm:"index;not null" json:"user_id"`
	RequestText  *string      `gorm:"type:text" json:"request_text"`
	RequestedAt  time.Time    `gorm:"index;not null" json:"requested_at"`
	Status       AdviceStatus `gorm:"type:varchar(20);index;default:pending;not null" json:"status"`
	AdminID      *uint        `json:"admin_id"`
	ResponseText *string      `gorm:"type:text" json:"response_text"`
	RespondedAt  *time.Time   `json:"responded_at"`
}

func (AdviceRequest) TableName() string {
	return "advice_requests"
}

// AdviceRequestView 列表展示用，附带申请者和回复者用户名
type AdviceRequestView struct {
	AdviceRequest
	RequesterUsername string  `json:"requester_username"`
	ResponderUsername *string `json:"responder_username"`
}
