package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"HealthifyGo/models"

	"gorm.io/gorm"
)

type AnnouncementService struct {
	db *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

// List activeOnly 为 true 时只返回启用的公告
func (s *AnnouncementService) List(ctx context.Context, activeOnly bool) ([]models.Announcement, error) {
	query := s.db.WithContext(ctx).Model(&models.Announcement{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	items := []models.Announcement{}
	if err := query.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("查询公告失败: %w", err)
	}
	return items, nil
}

func (s *AnnouncementService) Create(ctx context.Context, adminID uint, req *models.AnnouncementRequest) (*models.Announcement, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, validationf("公告标题不能为空")
	}
	item := models.Announcement{
		Title:    title,
		Content:  strings.TrimSpace(req.Content),
		AdminID:  adminID,
		IsActive: true,
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("保存公告失败: %w", err)
	}
	return &item, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id uint, req *models.AnnouncementRequest) (*models.Announcement, error) {
	var item models.Announcement
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("公告", id)
		}
		return nil, fmt.Errorf("查询公告失败: %w", err)
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		item.Title = title
	}
	item.Content = strings.TrimSpace(req.Content)
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	if err := s.db.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, fmt.Errorf("更新公告失败: %w", err)
	}
	return &item, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Announcement{}, id)
	if res.Error != nil {
		return fmt.Errorf("删除公告失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("公告", id)
	}
	return nil
}
