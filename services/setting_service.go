package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"HealthifyGo/models"

	"gorm.io/gorm"
)

type SettingService struct {
	db *gorm.DB
}

func NewSettingService(db *gorm.DB) *SettingService {
	return &SettingService{db: db}
}

func (s *SettingService) List(ctx context.Context) ([]models.SystemSetting, error) {
	settings := []models.SystemSetting{}
	if err := s.db.WithContext(ctx).Order("setting_key ASC").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("查询系统设置失败: %w", err)
	}
	return settings, nil
}

func (s *SettingService) find(tx *gorm.DB, key string) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	if err := tx.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: fmt.Sprintf("系统设置 %s", key)}
		}
		return nil, fmt.Errorf("查询系统设置失败: %w", err)
	}
	return &setting, nil
}

func (s *SettingService) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	return s.find(s.db.WithContext(ctx), key)
}

// Create 键已存在时返回冲突，修改请用 Update
func (s *SettingService) Create(ctx context.Context, adminID uint, req *models.SettingRequest) (*models.SystemSetting, error) {
	key := strings.TrimSpace(req.Key)
	if key == "" || len(key) > 64 {
		return nil, validationf("设置键长度需要在1到64之间")
	}
	if req.Value == nil {
		return nil, validationf("设置值不能为空")
	}
	setting := models.SystemSetting{Key: key, Value: *req.Value, UpdatedBy: &adminID}
	if req.Description != nil {
		setting.Description = strings.TrimSpace(*req.Description)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.SystemSetting{}).Where("setting_key = ?", key).Count(&count).Error; err != nil {
			return fmt.Errorf("查询系统设置失败: %w", err)
		}
		if count > 0 {
			return &ConflictError{Message: fmt.Sprintf("设置 %s 已存在", key)}
		}
		if err := tx.Create(&setting).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: fmt.Sprintf("设置 %s 已存在", key)}
			}
			return fmt.Errorf("保存系统设置失败: %w", err)
		}
		return logActivity(tx, adminID, ActionSettingCreate, key)
	})
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (s *SettingService) Update(ctx context.Context, adminID uint, key string, req *models.SettingRequest) (*models.SystemSetting, error) {
	if req.Value == nil {
		return nil, validationf("设置值不能为空")
	}
	var setting *models.SystemSetting
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.find(tx, key)
		if err != nil {
			return err
		}
		found.Value = *req.Value
		if req.Description != nil {
			found.Description = strings.TrimSpace(*req.Description)
		}
		found.UpdatedBy = &adminID
		if err := tx.Save(found).Error; err != nil {
			return fmt.Errorf("更新系统设置失败: %w", err)
		}
		setting = found
		return logActivity(tx, adminID, ActionSettingUpdate, key)
	})
	if err != nil {
		return nil, err
	}
	return setting, nil
}

func (s *SettingService) Delete(ctx context.Context, adminID uint, key string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("setting_key = ?", key).Delete(&models.SystemSetting{})
		if res.Error != nil {
			return fmt.Errorf("删除系统设置失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Resource: fmt.Sprintf("系统设置 %s", key)}
		}
		return logActivity(tx, adminID, ActionSettingDelete, key)
	})
}
