package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"HealthifyGo/models"

	"gorm.io/gorm"
)

type FoodService struct {
	db    *gorm.DB
	cache SummaryCache
}

// NewFoodService 食物库决定饮食结构的分类，所以改动后要让全部用户的统计缓存失效
func NewFoodService(db *gorm.DB, cache SummaryCache) *FoodService {
	if cache == nil {
		cache = noopCache{}
	}
	return &FoodService{db: db, cache: cache}
}

func duplicateName(name string) error {
	return &ConflictError{Message: fmt.Sprintf("食物 %s 已存在", name)}
}

// List 按类别过滤，category 为空时返回全部
func (s *FoodService) List(ctx context.Context, category string) ([]models.Food, error) {
	query := s.db.WithContext(ctx).Model(&models.Food{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	foods := []models.Food{}
	if err := query.Order("category ASC, name ASC").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("查询食物失败: %w", err)
	}
	return foods, nil
}

func (s *FoodService) nameTaken(tx *gorm.DB, name string, exceptID uint) (bool, error) {
	var count int64
	query := tx.Model(&models.Food{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("查询食物失败: %w", err)
	}
	return count > 0, nil
}

func (s *FoodService) Create(ctx context.Context, req *models.FoodRequest) (*models.Food, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	food := models.Food{
		Name:          req.Name,
		Category:      req.Category,
		Calories:      req.Calories,
		Description:   strings.TrimSpace(req.Description),
		IsRecommended: true,
	}
	if req.IsRecommended != nil {
		food.IsRecommended = *req.IsRecommended
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.nameTaken(tx, req.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return duplicateName(req.Name)
		}
		if err := tx.Create(&food).Error; err != nil {
			// 并发写入时唯一索引兜底
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicateName(req.Name)
			}
			return fmt.Errorf("保存食物失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateAll(ctx)
	return &food, nil
}

func (s *FoodService) Update(ctx context.Context, id uint, req *models.FoodRequest) (*models.Food, error) {
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	var food models.Food
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&food, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("食物", id)
			}
			return fmt.Errorf("查询食物失败: %w", err)
		}
		taken, err := s.nameTaken(tx, req.Name, id)
		if err != nil {
			return err
		}
		if taken {
			return duplicateName(req.Name)
		}

		food.Name = req.Name
		food.Category = req.Category
		food.Calories = req.Calories
		food.Description = strings.TrimSpace(req.Description)
		if req.IsRecommended != nil {
			food.IsRecommended = *req.IsRecommended
		}
		if err := tx.Save(&food).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return duplicateName(req.Name)
			}
			return fmt.Errorf("更新食物失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateAll(ctx)
	return &food, nil
}

func (s *FoodService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Food{}, id)
	if res.Error != nil {
		return fmt.Errorf("删除食物失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("食物", id)
	}
	s.cache.InvalidateAll(ctx)
	return nil
}

// CategoryIndex 食物名(小写) -> 类别，供饮食结构统计使用
func (s *FoodService) CategoryIndex(ctx context.Context) (map[string]string, error) {
	var foods []models.Food
	if err := s.db.WithContext(ctx).Select("name", "category").Find(&foods).Error; err != nil {
		return nil, fmt.Errorf("查询食物库失败: %w", err)
	}
	index := make(map[string]string, len(foods))
	for _, f := range foods {
		index[strings.ToLower(f.Name)] = f.Category
	}
	return index, nil
}
