package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"HealthifyGo/models"

	"gorm.io/gorm"
)

type SuggestionService struct {
	db *gorm.DB
}

func NewSuggestionService(db *gorm.DB) *SuggestionService {
	return &SuggestionService{db: db}
}

// Add 管理员给用户追加一条建议
func (s *SuggestionService) Add(ctx context.Context, userID, adminID uint, content string) (*models.ManualSuggestion, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationf("建议内容不能为空")
	}

	item := models.ManualSuggestion{UserID: userID, AdminID: adminID, Content: content}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("用户", userID)
			}
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("保存建议失败: %w", err)
		}
		return logActivity(tx, adminID, ActionSuggestionAdd, fmt.Sprintf("user=%d suggestion=%d", userID, item.ID))
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List 用户收到的建议，最新的在前
func (s *SuggestionService) List(ctx context.Context, userID uint) ([]models.ManualSuggestion, error) {
	items := []models.ManualSuggestion{}
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("查询建议失败: %w", err)
	}
	return items, nil
}

func (s *SuggestionService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.ManualSuggestion{}, id)
	if res.Error != nil {
		return fmt.Errorf("删除建议失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("建议", id)
	}
	return nil
}
