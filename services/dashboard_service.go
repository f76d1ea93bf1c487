package services

import (
	"context"
	"fmt"

	"HealthifyGo/models"

	"gorm.io/gorm"
)

const (
	dashboardRecentUsers = 5
	dashboardRecentLogs  = 10
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Overview 用户统计、待处理建议数、有效公告数、最近注册的用户和最近的操作日志
func (s *DashboardService) Overview(ctx context.Context) (*models.DashboardResponse, error) {
	db := s.db.WithContext(ctx)
	resp := &models.DashboardResponse{}

	counts := []struct {
		dest  *int64
		model interface{}
		where string
		args  []interface{}
	}{
		{&resp.UserStats.Total, &models.User{}, "", nil},
		{&resp.UserStats.Active, &models.User{}, "is_active = ?", []interface{}{true}},
		{&resp.UserStats.Admin, &models.User{}, "role = ?", []interface{}{models.RoleAdmin}},
		{&resp.PendingAdvice, &models.AdviceRequest{}, "status = ?", []interface{}{models.AdvicePending}},
		{&resp.ActiveAnnouncements, &models.Announcement{}, "is_active = ?", []interface{}{true}},
	}
	for _, c := range counts {
		q := db.Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("统计数据失败: %w", err)
		}
	}

	var users []models.User
	if err := db.Order("created_at DESC, id DESC").Limit(dashboardRecentUsers).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("查询最近用户失败: %w", err)
	}
	resp.RecentUsers = make([]models.UserResponse, 0, len(users))
	for i := range users {
		resp.RecentUsers = append(resp.RecentUsers, models.NewUserResponse(&users[i]))
	}

	resp.RecentLogs = []models.ActivityLog{}
	if err := db.Order("created_at DESC, id DESC").Limit(dashboardRecentLogs).Find(&resp.RecentLogs).Error; err != nil {
		return nil, fmt.Errorf("查询操作日志失败: %w", err)
	}
	return resp, nil
}
