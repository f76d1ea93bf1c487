package services

import (
	"context"
	"fmt"
	"time"

	"HealthifyGo/models"

	"gorm.io/gorm"
)

// 操作类型
const (
	ActionLogin          = "login"
	ActionRegister       = "register"
	ActionGenerateReport = "generate_report"
	ActionDeleteReport   = "delete_report"
	ActionAdminAdvice    = "admin_advice"
	ActionAdviceSubmit   = "advice_submit"
	ActionAdviceRespond  = "advice_respond"
	ActionSuggestionAdd  = "suggestion_add"
	ActionUserDelete     = "user_delete"
	ActionUserCreate     = "user_create"
	ActionPasswordChange = "password_change"
	ActionSettingCreate  = "setting_create"
	ActionSettingUpdate  = "setting_update"
	ActionSettingDelete  = "setting_delete"
)

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// logActivity 在调用方的事务里写操作日志
func logActivity(tx *gorm.DB, userID uint, action, detail string) error {
	entry := models.ActivityLog{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("写入操作日志失败: %w", err)
	}
	return nil
}

// List 按时间倒序分页查询，userID 为 0 时查询全部
func (s *ActivityService) List(ctx context.Context, userID uint, action string, page, perPage int) ([]models.ActivityLog, models.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.ActivityLog{})
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询操作日志失败: %w", err)
	}
	p := models.NewPagination(page, perPage, total)

	logs := []models.ActivityLog{}
	if err := query.Order("created_at DESC, id DESC").Offset(p.Offset()).Limit(p.PerPage).Find(&logs).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询操作日志失败: %w", err)
	}
	return logs, p, nil
}
