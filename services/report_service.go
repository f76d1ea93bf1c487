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

// Requester 发起请求的用户
type Requester struct {
	UserID uint
	Role   string
}

func (r Requester) IsAdmin() bool {
	return r.Role == models.RoleAdmin
}

type ReportService struct {
	db      *gorm.DB
	records *RecordService
	foods   *FoodService
	scoring config.Scoring
	cache   SummaryCache
}

func NewReportService(db *gorm.DB, records *RecordService, foods *FoodService, scoring config.Scoring, cache SummaryCache) *ReportService {
	if cache == nil {
		cache = noopCache{}
	}
	return &ReportService{
		db:      db,
		records: records,
		foods:   foods,
		scoring: scoring,
		cache:   cache,
	}
}

// aggregateOptions 读取统计需要的用户身高和食物库
func (s *ReportService) aggregateOptions(ctx context.Context, userID uint) (AggregateOptions, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AggregateOptions{}, notFound("用户", userID)
		}
		return AggregateOptions{}, fmt.Errorf("查询用户失败: %w", err)
	}
	categories, err := s.foods.CategoryIndex(ctx)
	if err != nil {
		return AggregateOptions{}, err
	}
	return AggregateOptions{
		Scoring:        s.scoring,
		FoodCategories: categories,
		HeightCM:       user.HeightCM,
	}, nil
}

func (s *ReportService) summarize(ctx context.Context, userID uint, w Window) (*models.Summary, []models.Record, error) {
	opts, err := s.aggregateOptions(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.records.InWindow(ctx, userID, w)
	if err != nil {
		return nil, nil, err
	}
	return Aggregate(records, w, opts), records, nil
}

// Summary 最近 days 天的健康摘要
func (s *ReportService) Summary(ctx context.Context, userID uint, days int) (*models.Summary, error) {
	w, err := TrailingWindow(days, time.Now())
	if err != nil {
		return nil, err
	}
	return s.cachedSummary(ctx, userID, w, fmt.Sprintf("summary:%d:%s", days, w.End.Format(models.DateLayout)))
}

// RangeSummary 指定起止日期(含两端)的健康摘要
func (s *ReportService) RangeSummary(ctx context.Context, userID uint, start, end string) (*models.Summary, error) {
	w, err := DateRangeWindow(start, end)
	if err != nil {
		return nil, err
	}
	return s.cachedSummary(ctx, userID, w, fmt.Sprintf("range:%s:%s", start, end))
}

func (s *ReportService) cachedSummary(ctx context.Context, userID uint, w Window, cacheKey string) (*models.Summary, error) {
	var cached models.Summary
	if s.cache.Get(ctx, userID, cacheKey, &cached) {
		return &cached, nil
	}

	summary, _, err := s.summarize(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, userID, cacheKey, summary)
	return summary, nil
}

// Data 按命名周期统计，并附带窗口内的原始饮食记录
func (s *ReportService) Data(ctx context.Context, userID uint, period string) (*models.ReportDataResponse, error) {
	w, err := PeriodWindow(period, time.Now())
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("data:%s:%s", period, w.End.Format(models.DateLayout))
	var cached models.ReportDataResponse
	if s.cache.Get(ctx, userID, cacheKey, &cached) {
		return &cached, nil
	}

	summary, records, err := s.summarize(ctx, userID, w)
	if err != nil {
		return nil, err
	}

	foods := []models.FoodRecordItem{}
	for _, r := range records {
		if f, ok := r.(models.FoodRecord); ok {
			foods = append(foods, models.FoodRecordItem{
				ID:         f.ID,
				MealTime:   f.MealTime,
				FoodName:   f.FoodName,
				RecordDate: models.DayKey(f.RecordDate),
			})
		}
	}

	resp := &models.ReportDataResponse{Summary: summary, Period: period, FoodRecords: foods}
	s.cache.Set(ctx, userID, cacheKey, resp)
	return resp, nil
}

// Trends 命名周期内饮食、运动、心情的每日序列及走势，period 为空时按 month
func (s *ReportService) Trends(ctx context.Context, userID uint, period string) (*models.TrendsResponse, error) {
	if period == "" {
		period = "month"
	}
	w, err := PeriodWindow(period, time.Now())
	if err != nil {
		return nil, err
	}
	summary, _, err := s.summarize(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	return &models.TrendsResponse{
		Period:      period,
		WindowStart: summary.WindowStart,
		WindowEnd:   summary.WindowEnd,
		Food:        models.SeriesTrend{Direction: seriesDirection(summary.FoodTrend), Points: summary.FoodTrend},
		Exercise:    models.SeriesTrend{Direction: seriesDirection(summary.ExerciseTrend), Points: summary.ExerciseTrend},
		Mood:        models.SeriesTrend{Direction: seriesDirection(summary.MoodSeries), Points: summary.MoodSeries},
		Weight:      summary.WeightTrend,
	}, nil
}

// Generate 统计窗口内的记录并保存为报告快照。窗口内没有任何记录时不创建报告。
func (s *ReportService) Generate(ctx context.Context, userID uint, period string) (*models.Report, error) {
	if period == "" {
		period = "week"
	}
	w, err := PeriodWindow(period, time.Now())
	if err != nil {
		return nil, err
	}

	summary, _, err := s.summarize(ctx, userID, w)
	if err != nil {
		return nil, err
	}
	if summary.RecordCount == 0 {
		reportsRejectedTotal.Inc()
		return nil, &InsufficientDataError{Period: period}
	}

	report := models.Report{
		UserID:      userID,
		ReportType:  period,
		StartDate:   summary.WindowStart,
		EndDate:     summary.WindowEnd,
		PublishedAt: time.Now(),
		ReportData:  *summary,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return fmt.Errorf("保存报告失败: %w", err)
		}
		return logActivity(tx, userID, ActionGenerateReport, fmt.Sprintf("report=%d period=%s", report.ID, period))
	})
	if err != nil {
		return nil, err
	}

	reportsGeneratedTotal.WithLabelValues(period).Inc()
	config.Logger.Infow("生成报告", "userID", userID, "reportID", report.ID, "period", period, "records", summary.RecordCount)
	return &report, nil
}

func (s *ReportService) find(ctx context.Context, reportID uint) (*models.Report, error) {
	var report models.Report
	if err := s.db.WithContext(ctx).First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("报告", reportID)
		}
		return nil, fmt.Errorf("查询报告失败: %w", err)
	}
	return &report, nil
}

// Get 报告所有者或管理员可以查看
func (s *ReportService) Get(ctx context.Context, reportID uint, requester Requester) (*models.Report, error) {
	report, err := s.find(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.UserID != requester.UserID && !requester.IsAdmin() {
		return nil, &PermissionError{Message: "无权查看该报告"}
	}
	return report, nil
}

// List 当前用户的报告，按发布时间倒序
func (s *ReportService) List(ctx context.Context, userID uint, page, perPage int) ([]models.Report, models.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.Report{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询报告失败: %w", err)
	}
	p := models.NewPagination(page, perPage, total)

	reports := []models.Report{}
	if err := query.Order("published_at DESC, id DESC").Offset(p.Offset()).Limit(p.PerPage).Find(&reports).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询报告失败: %w", err)
	}
	return reports, p, nil
}

// Delete 报告所有者或管理员可以删除
func (s *ReportService) Delete(ctx context.Context, reportID uint, requester Requester) error {
	report, err := s.Get(ctx, reportID, requester)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Report{}, report.ID).Error; err != nil {
			return fmt.Errorf("删除报告失败: %w", err)
		}
		return logActivity(tx, requester.UserID, ActionDeleteReport, fmt.Sprintf("report=%d", report.ID))
	})
}

// Latest 用户最近发布的报告
func (s *ReportService) Latest(ctx context.Context, userID uint) (*models.Report, error) {
	return latestReport(s.db.WithContext(ctx), userID)
}

func latestReport(tx *gorm.DB, userID uint) (*models.Report, error) {
	var report models.Report
	err := tx.Where("user_id = ?", userID).Order("published_at DESC, id DESC").First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: fmt.Sprintf("用户 %d 的健康报告", userID)}
		}
		return nil, fmt.Errorf("查询报告失败: %w", err)
	}
	return &report, nil
}

// SubmitAdminAdvice 覆盖用户最新报告的管理员建议，不重新计算报告数据
func (s *ReportService) SubmitAdminAdvice(ctx context.Context, userID, adminID uint, text string) (*models.Report, error) {
	var report *models.Report
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		latest, err := latestReport(tx, userID)
		if err != nil {
			return err
		}
		err = tx.Model(&models.Report{}).Where("id = ?", latest.ID).
			Updates(map[string]interface{}{"admin_advice": text, "admin_id": adminID}).Error
		if err != nil {
			return fmt.Errorf("更新报告建议失败: %w", err)
		}
		latest.AdminAdvice = text
		latest.AdminID = &adminID
		report = latest
		return logActivity(tx, adminID, ActionAdminAdvice, fmt.Sprintf("user=%d report=%d", userID, latest.ID))
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// UpdateAdminText 修改指定报告的管理员总结和建议，nil 字段保持不变
func (s *ReportService) UpdateAdminText(ctx context.Context, reportID, adminID uint, summary, advice *string) (*models.Report, error) {
	if summary == nil && advice == nil {
		return nil, validationf("admin_summary 和 admin_advice 至少需要一个")
	}
	updates := map[string]interface{}{"admin_id": adminID}
	if summary != nil {
		updates["admin_summary"] = strings.TrimSpace(*summary)
	}
	if advice != nil {
		updates["admin_advice"] = strings.TrimSpace(*advice)
	}

	var report *models.Report
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Report{}).Where("id = ?", reportID).Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("更新报告失败: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("报告", reportID)
		}
		var updated models.Report
		if err := tx.First(&updated, reportID).Error; err != nil {
			return fmt.Errorf("查询报告失败: %w", err)
		}
		report = &updated
		return logActivity(tx, adminID, ActionAdminAdvice, fmt.Sprintf("report=%d", reportID))
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
