package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"HealthifyGo/config"
	"HealthifyGo/models"

	"gorm.io/gorm"
)

// 列表状态过滤
const (
	AdviceFilterAll = "all"
)

type AdviceService struct {
	db *gorm.DB
}

func NewAdviceService(db *gorm.DB) *AdviceService {
	return &AdviceService{db: db}
}

// Submit 用户发起建议请求，空白文本按 null 保存
func (s *AdviceService) Submit(ctx context.Context, userID uint, text *string) (*models.AdviceRequest, error) {
	var requestText *string
	if text != nil {
		if trimmed := strings.TrimSpace(*text); trimmed != "" {
			requestText = &trimmed
		}
	}

	req := models.AdviceRequest{
		UserID:      userID,
		RequestText: requestText,
		RequestedAt: time.Now(),
		Status:      models.AdvicePending,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&req).Error; err != nil {
			return fmt.Errorf("保存建议请求失败: %w", err)
		}
		return logActivity(tx, userID, ActionAdviceSubmit, fmt.Sprintf("request=%d", req.ID))
	})
	if err != nil {
		return nil, err
	}
	adviceRequestsTotal.WithLabelValues("submitted").Inc()
	return &req, nil
}

// Respond 管理员回复待处理的请求。每个请求只能回复一次。
func (s *AdviceService) Respond(ctx context.Context, requestID, adminID uint, text string) (*models.AdviceRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, validationf("回复内容不能为空")
	}

	var answered models.AdviceRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		// 只有 pending 状态会被更新，并发回复时只有一个成功
		res := tx.Model(&models.AdviceRequest{}).
			Where("id = ? AND status = ?", requestID, models.AdvicePending).
			Updates(map[string]interface{}{
				"status":        models.AdviceAnswered,
				"response_text": text,
				"admin_id":      adminID,
				"responded_at":  now,
			})
		if res.Error != nil {
			return fmt.Errorf("更新建议请求失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var existing models.AdviceRequest
			if err := tx.First(&existing, requestID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("建议请求", requestID)
				}
				return fmt.Errorf("查询建议请求失败: %w", err)
			}
			return &ConflictError{Message: fmt.Sprintf("建议请求 %d 已经回复过", requestID)}
		}
		if err := tx.First(&answered, requestID).Error; err != nil {
			return fmt.Errorf("查询建议请求失败: %w", err)
		}
		return logActivity(tx, adminID, ActionAdviceRespond, fmt.Sprintf("request=%d", requestID))
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			adviceRequestsTotal.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	adviceRequestsTotal.WithLabelValues("answered").Inc()
	config.Logger.Infow("回复建议请求", "requestID", requestID, "adminID", adminID)
	return &answered, nil
}

// List 管理员按状态查看请求，status 为 pending、answered 或 all
func (s *AdviceService) List(ctx context.Context, status string, page, perPage int) ([]models.AdviceRequestView, models.Pagination, error) {
	if status == "" {
		status = string(models.AdvicePending)
	}
	query := s.db.WithContext(ctx).Model(&models.AdviceRequest{})
	switch status {
	case string(models.AdvicePending), string(models.AdviceAnswered):
		query = query.Where("status = ?", status)
	case AdviceFilterAll:
	default:
		return nil, models.Pagination{}, validationf("无效的状态: %s", status)
	}
	return s.page(ctx, query, page, perPage)
}

// ListMine 用户自己的请求
func (s *AdviceService) ListMine(ctx context.Context, userID uint, page, perPage int) ([]models.AdviceRequestView, models.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.AdviceRequest{}).Where("user_id = ?", userID)
	return s.page(ctx, query, page, perPage)
}

func (s *AdviceService) page(ctx context.Context, query *gorm.DB, page, perPage int) ([]models.AdviceRequestView, models.Pagination, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询建议请求失败: %w", err)
	}
	p := models.NewPagination(page, perPage, total)

	var requests []models.AdviceRequest
	if err := query.Order("requested_at DESC, id DESC").Offset(p.Offset()).Limit(p.PerPage).Find(&requests).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询建议请求失败: %w", err)
	}
	views, err := s.withUsernames(ctx, requests)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return views, p, nil
}

// withUsernames 批量查出申请者和回复者的用户名
func (s *AdviceService) withUsernames(ctx context.Context, requests []models.AdviceRequest) ([]models.AdviceRequestView, error) {
	ids := make([]uint, 0, len(requests)*2)
	for _, r := range requests {
		ids = append(ids, r.UserID)
		if r.AdminID != nil {
			ids = append(ids, *r.AdminID)
		}
	}

	names := map[uint]string{}
	if len(ids) > 0 {
		var users []models.User
		if err := s.db.WithContext(ctx).Select("id", "username").Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, fmt.Errorf("查询用户失败: %w", err)
		}
		for _, u := range users {
			names[u.ID] = u.Username
		}
	}

	views := make([]models.AdviceRequestView, 0, len(requests))
	for _, r := range requests {
		v := models.AdviceRequestView{AdviceRequest: r, RequesterUsername: names[r.UserID]}
		if r.AdminID != nil {
			if name, ok := names[*r.AdminID]; ok {
				v.ResponderUsername = &name
			}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *AdviceService) Get(ctx context.Context, requestID uint) (*models.AdviceRequest, error) {
	var req models.AdviceRequest
	if err := s.db.WithContext(ctx).First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("建议请求", requestID)
		}
		return nil, fmt.Errorf("查询建议请求失败: %w", err)
	}
	return &req, nil
}
