package models

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Email    *string `json:"email"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 修改个人资料，空字段不修改
type UpdateProfileRequest struct {
	Email      *string  `json:"email"`
	Gender     *string  `json:"gender"`
	HeightCM   *float64 `json:"height"`
	WeightKG   *float64 `json:"weight"`
	WeightGoal *float64 `json:"weight_goal"`
	Avatar     *string  `json:"avatar"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// AdminCreateUserRequest 管理员创建账号，role 默认 user，is_active 默认 true
type AdminCreateUserRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Email    *string `json:"email"`
	Role     string  `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// AdminUpdateUserRequest 管理员修改用户
type AdminUpdateUserRequest struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
	Email    *string `json:"email"`
}

// CreateRecordRequest 新建记录请求，只有 type 对应的字段会被使用
type CreateRecordRequest struct {
	Type         RecordKind `json:"type" binding:"required"`
	Note         string     `json:"note"`
	RecordDate   string     `json:"record_date"` // 2006-01-02，默认今天
	ExerciseType string     `json:"exercise_type"`
	Duration     *int       `json:"duration"`
	Intensity    string     `json:"intensity"`
	MoodType     string     `json:"mood_type"`
	FoodName     string     `json:"food_name"`
	MealTime     string     `json:"meal_time"`
	Feeling      string     `json:"feeling"`
	Status       []string   `json:"status"`
	WeightKG     *float64   `json:"weight_kg"`
	BMI          *float64   `json:"bmi"`
}

// ToRecord 校验请求并转换为具体记录
func (r *CreateRecordRequest) ToRecord(userID uint, now time.Time) (Record, error) {
	base := RecordBase{UserID: userID, Note: strings.TrimSpace(r.Note), CreatedAt: now}
	if r.RecordDate == "" {
		base.RecordDate = CalendarDay(now)
	} else {
		d, err := time.ParseInLocation(DateLayout, r.RecordDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("无效的日期格式: %s", r.RecordDate)
		}
		base.RecordDate = d
	}

	switch r.Type {
	case KindExercise:
		if r.ExerciseType == "" {
			return nil, fmt.Errorf("运动类型不能为空")
		}
		duration := 0
		if r.Duration != nil {
			duration = *r.Duration
		}
		if duration < 0 {
			return nil, fmt.Errorf("运动时长不能为负数")
		}
		intensity := r.Intensity
		if intensity == "" {
			intensity = "medium"
		}
		if !contains(Intensities, intensity) {
			return nil, fmt.Errorf("无效的运动强度: %s", intensity)
		}
		return ExerciseRecord{RecordBase: base, ExerciseType: r.ExerciseType, Duration: duration, Intensity: intensity}, nil
	case KindMood:
		if r.MoodType == "" {
			return nil, fmt.Errorf("心情类型不能为空")
		}
		return MoodRecord{RecordBase: base, MoodType: r.MoodType}, nil
	case KindFood:
		if strings.TrimSpace(r.FoodName) == "" {
			return nil, fmt.Errorf("食物名称不能为空")
		}
		if !contains(MealTimes, r.MealTime) {
			return nil, fmt.Errorf("无效的餐次: %s", r.MealTime)
		}
		return FoodRecord{RecordBase: base, FoodName: strings.TrimSpace(r.FoodName), MealTime: r.MealTime}, nil
	case KindBodyStatus:
		if !contains(Feelings, r.Feeling) {
			return nil, fmt.Errorf("无效的身体感受: %s", r.Feeling)
		}
		if r.WeightKG != nil && *r.WeightKG <= 0 {
			return nil, fmt.Errorf("体重必须大于0")
		}
		return BodyStatusRecord{RecordBase: base, Feeling: r.Feeling, Status: r.Status, WeightKG: r.WeightKG, BMI: r.BMI}, nil
	default:
		return nil, fmt.Errorf("无效的记录类型: %s", r.Type)
	}
}

// UpdateRecordRequest 修改记录，只修改提供的字段。记录类型和日期不能修改。
type UpdateRecordRequest struct {
	Type         RecordKind `json:"type"`
	Note         *string    `json:"note"`
	ExerciseType *string    `json:"exercise_type"`
	Duration     *int       `json:"duration"`
	Intensity    *string    `json:"intensity"`
	MoodType     *string    `json:"mood_type"`
	FoodName     *string    `json:"food_name"`
	MealTime     *string    `json:"meal_time"`
	Feeling      *string    `json:"feeling"`
	Status       []string   `json:"status"`
	WeightKG     *float64   `json:"weight_kg"`
	BMI          *float64   `json:"bmi"`
}

// Apply 把修改合并到已有记录上，并按新建记录的规则重新校验
func (r *UpdateRecordRequest) Apply(existing Record) (Record, error) {
	base := existing.Meta()
	if r.Type != "" && r.Type != existing.Kind() {
		return nil, fmt.Errorf("记录类型不能修改: %s", existing.Kind())
	}

	merged := CreateRecordRequest{Type: existing.Kind(), Note: base.Note, RecordDate: DayKey(base.RecordDate)}
	switch v := existing.(type) {
	case ExerciseRecord:
		duration := v.Duration
		merged.ExerciseType, merged.Duration, merged.Intensity = v.ExerciseType, &duration, v.Intensity
	case MoodRecord:
		merged.MoodType = v.MoodType
	case FoodRecord:
		merged.FoodName, merged.MealTime = v.FoodName, v.MealTime
	case BodyStatusRecord:
		merged.Feeling, merged.Status, merged.WeightKG, merged.BMI = v.Feeling, v.Status, v.WeightKG, v.BMI
	}

	if r.Note != nil {
		merged.Note = *r.Note
	}
	if r.ExerciseType != nil {
		merged.ExerciseType = *r.ExerciseType
	}
	if r.Duration != nil {
		merged.Duration = r.Duration
	}
	if r.Intensity != nil {
		merged.Intensity = *r.Intensity
	}
	if r.MoodType != nil {
		merged.MoodType = *r.MoodType
	}
	if r.FoodName != nil {
		merged.FoodName = *r.FoodName
	}
	if r.MealTime != nil {
		merged.MealTime = *r.MealTime
	}
	if r.Feeling != nil {
		merged.Feeling = *r.Feeling
	}
	if r.Status != nil {
		merged.Status = r.Status
	}
	if r.WeightKG != nil {
		merged.WeightKG = r.WeightKG
		// 体重变化后旧的 BMI 失效，除非同时给出新值
		merged.BMI = r.BMI
	} else if r.BMI != nil {
		merged.BMI = r.BMI
	}

	updated, err := merged.ToRecord(base.UserID, base.CreatedAt)
	if err != nil {
		return nil, err
	}
	return withID(updated, base.ID), nil
}

func withID(r Record, id uint) Record {
	switch v := r.(type) {
	case ExerciseRecord:
		v.ID = id
		return v
	case MoodRecord:
		v.ID = id
		return v
	case FoodRecord:
		v.ID = id
		return v
	case BodyStatusRecord:
		v.ID = id
		return v
	}
	return r
}

// SettingRequest 新建或修改系统设置
type SettingRequest struct {
	Key         string  `json:"key"`
	Value       *string `json:"value"`
	Description *string `json:"description"`
}

// GenerateReportRequest 生成报告请求
type GenerateReportRequest struct {
	Type string `json:"type"` // week, month, quarter, year
}

// SubmitAdviceRequest 提交建议请求，request_text 可以为空
type SubmitAdviceRequest struct {
	RequestText *string `json:"request_text"`
}

// RespondAdviceRequest 管理员回复建议请求
type RespondAdviceRequest struct {
	ResponseText string `json:"response_text"`
}

// RecommendationRequest 管理员为用户最新报告填写建议
type RecommendationRequest struct {
	Recommendation *string `json:"recommendation" binding:"required"`
}

// UpdateReportTextRequest 管理员修改报告文字
type UpdateReportTextRequest struct {
	AdminSummary *string `json:"admin_summary"`
	AdminAdvice  *string `json:"admin_advice"`
}

// ManualSuggestionRequest 管理员添加手动建议
type ManualSuggestionRequest struct {
	Content string `json:"content"`
}

// FoodRequest 新建或修改食物
type FoodRequest struct {
	Name          string   `json:"name" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	Calories      *float64 `json:"calories"`
	Description   string   `json:"description"`
	IsRecommended *bool    `json:"is_recommended"`
}

func (r *FoodRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fmt.Errorf("食物名称不能为空")
	}
	if !contains(FoodCategories, r.Category) {
		return fmt.Errorf("无效的食物类别: %s", r.Category)
	}
	if r.Calories != nil && *r.Calories < 0 {
		return fmt.Errorf("热量不能为负数")
	}
	return nil
}

// AnnouncementRequest 新建或修改公告
type AnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	IsActive *bool  `json:"is_active"`
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
