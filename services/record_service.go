package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"HealthifyGo/config"
	"HealthifyGo/models"

	"gorm.io/gorm"
)

type RecordService struct {
	db    *gorm.DB
	cache SummaryCache
}

func NewRecordService(db *gorm.DB, cache SummaryCache) *RecordService {
	if cache == nil {
		cache = noopCache{}
	}
	return &RecordService{db: db, cache: cache}
}

// RecordFilter 记录列表查询条件，空字段不过滤
type RecordFilter struct {
	Kind      models.RecordKind
	StartDate string
	EndDate   string
	Page      int
	PerPage   int
}

// Create 新建一条记录。身体状态记录带体重但没有 BMI 时，用资料里的身高补算。
func (s *RecordService) Create(ctx context.Context, userID uint, req *models.CreateRecordRequest) (*models.RecordRow, error) {
	record, err := req.ToRecord(userID, time.Now())
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	if body, ok := record.(models.BodyStatusRecord); ok && body.WeightKG != nil && body.BMI == nil {
		var user models.User
		if err := s.db.WithContext(ctx).Select("id", "height_cm").First(&user, userID).Error; err == nil {
			body.BMI = computeBMI(body.WeightKG, user.HeightCM)
			record = body
		}
	}

	row := models.NewRecordRow(record)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("保存记录失败: %w", err)
	}
	s.cache.Invalidate(ctx, userID)

	config.Logger.Debugw("新建记录", "userID", userID, "type", row.Type, "recordID", row.ID)
	return &row, nil
}

// List 分页查询当前用户的记录，按记录日期倒序
func (s *RecordService) List(ctx context.Context, userID uint, f RecordFilter) ([]models.RecordRow, models.Pagination, error) {
	query := s.db.WithContext(ctx).Model(&models.RecordRow{}).Where("user_id = ?", userID)
	if f.Kind != "" {
		if !f.Kind.Valid() {
			return nil, models.Pagination{}, validationf("无效的记录类型: %s", f.Kind)
		}
		query = query.Where("type = ?", f.Kind)
	}
	if f.StartDate != "" {
		start, err := time.ParseInLocation(models.DateLayout, f.StartDate, time.UTC)
		if err != nil {
			return nil, models.Pagination{}, validationf("无效的开始日期: %s", f.StartDate)
		}
		query = query.Where("record_date >= ?", start)
	}
	if f.EndDate != "" {
		end, err := time.ParseInLocation(models.DateLayout, f.EndDate, time.UTC)
		if err != nil {
			return nil, models.Pagination{}, validationf("无效的结束日期: %s", f.EndDate)
		}
		query = query.Where("record_date < ?", end.AddDate(0, 0, 1))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询记录失败: %w", err)
	}
	p := models.NewPagination(f.Page, f.PerPage, total)

	rows := []models.RecordRow{}
	if err := query.Order("record_date DESC, id DESC").Offset(p.Offset()).Limit(p.PerPage).Find(&rows).Error; err != nil {
		return nil, models.Pagination{}, fmt.Errorf("查询记录失败: %w", err)
	}
	return rows, p, nil
}

// Get 只能查看自己的记录，别人的记录按不存在处理
func (s *RecordService) Get(ctx context.Context, userID, recordID uint) (*models.RecordRow, error) {
	var row models.RecordRow
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", recordID, userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("记录", recordID)
		}
		return nil, fmt.Errorf("查询记录失败: %w", err)
	}
	return &row, nil
}

func (s *RecordService) Delete(ctx context.Context, userID, recordID uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", recordID, userID).Delete(&models.RecordRow{})
	if res.Error != nil {
		return fmt.Errorf("删除记录失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("记录", recordID)
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// Update 修改自己的记录。体重变化且未给出 BMI 时按资料身高重新计算。
func (s *RecordService) Update(ctx context.Context, userID, recordID uint, req *models.UpdateRecordRequest) (*models.RecordRow, error) {
	var row models.RecordRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", recordID, userID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("记录", recordID)
			}
			return fmt.Errorf("查询记录失败: %w", err)
		}
		existing, err := row.ToRecord()
		if err != nil {
			return fmt.Errorf("记录数据异常: %w", err)
		}
		updated, err := req.Apply(existing)
		if err != nil {
			return &ValidationError{Message: err.Error()}
		}

		if body, ok := updated.(models.BodyStatusRecord); ok && body.WeightKG != nil && body.BMI == nil {
			var user models.User
			if err := tx.Select("id", "height_cm").First(&user, userID).Error; err == nil {
				body.BMI = computeBMI(body.WeightKG, user.HeightCM)
				updated = body
			}
		}

		row = models.NewRecordRow(updated)
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("更新记录失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, userID)
	return &row, nil
}

// Stats 最近 days 天各类记录的数量、运动总时长以及心情和身体感受分布
func (s *RecordService) Stats(ctx context.Context, userID uint, days int) (*models.RecordStats, error) {
	w, err := TrailingWindow(days, time.Now())
	if err != nil {
		return nil, err
	}
	records, err := s.InWindow(ctx, userID, w)
	if err != nil {
		return nil, err
	}

	stats := &models.RecordStats{
		Days:      days,
		StartDate: w.Start.Format(models.DateLayout),
		EndDate:   w.LastDay().Format(models.DateLayout),
		Counts: map[string]int{
			string(models.KindFood):       0,
			string(models.KindExercise):   0,
			string(models.KindMood):       0,
			string(models.KindBodyStatus): 0,
		},
		MoodDistribution:   map[string]int{},
		HealthDistribution: map[string]int{},
	}
	for _, r := range records {
		stats.Counts[string(r.Kind())]++
		switch v := r.(type) {
		case models.ExerciseRecord:
			stats.ExerciseMinutes += v.Duration
		case models.MoodRecord:
			stats.MoodDistribution[v.MoodType]++
		case models.BodyStatusRecord:
			stats.HealthDistribution[v.Feeling]++
		}
	}
	stats.TotalRecords = len(records)
	return stats, nil
}

// InWindow 读取窗口内的记录并还原成具体类型
func (s *RecordService) InWindow(ctx context.Context, userID uint, w Window) ([]models.Record, error) {
	var rows []models.RecordRow
	// 查询条件比窗口略宽，精确的边界由 Window.Contains 判断
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND record_date >= ? AND record_date <= ?", userID, w.Start.AddDate(0, 0, -1), w.End.AddDate(0, 0, 1)).
		Order("record_date ASC, created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询记录失败: %w", err)
	}

	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		if !w.Contains(row.RecordDate) {
			continue
		}
		r, err := row.ToRecord()
		if err != nil {
			config.Logger.Warnw("跳过无法识别的记录", "recordID", row.ID, "error", err)
			continue
		}
		records = append(records, r)
	}
	return records, nil
}
