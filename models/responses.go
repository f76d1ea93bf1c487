package models

import "time"

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PagedData 分页列表
type PagedData struct {
	Items      interface{} `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse 用户响应结构体
type UserResponse struct {
	ID         uint     `json:"id"`
	Username   string   `json:"username"`
	Email      *string  `json:"email"`
	Role       string   `json:"role"`
	IsActive   bool     `json:"is_active"`
	Gender     string   `json:"gender"`
	HeightCM   *float64 `json:"height"`
	WeightKG   *float64 `json:"weight"`
	WeightGoal *float64 `json:"weight_goal"`
	Avatar     string   `json:"avatar"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		IsActive:   u.IsActive,
		Gender:     u.Gender,
		HeightCM:   u.HeightCM,
		WeightKG:   u.WeightKG,
		WeightGoal: u.WeightGoal,
		Avatar:     u.Avatar,
	}
}

// FoodRecordItem 报告数据中附带的原始饮食记录，供前端计算饮食丰富度
type FoodRecordItem struct {
	ID         uint   `json:"id"`
	MealTime   string `json:"meal_time"`
	FoodName   string `json:"food_name"`
	RecordDate string `json:"record_date"`
}

// ReportDataResponse GET /reports/data 的响应
type ReportDataResponse struct {
	*Summary
	Period      string           `json:"period"`
	FoodRecords []FoodRecordItem `json:"foodRecords"`
}

// GenerateReportResponse 生成报告的响应
type GenerateReportResponse struct {
	Report          *Report  `json:"report"`
	Recommendations []string `json:"recommendations"`
}

// UserReportResponse 管理员查看用户最新报告
type UserReportResponse struct {
	ReportID            uint      `json:"report_id"`
	UserID              uint      `json:"user_id"`
	UserName            string    `json:"userName"`
	GeneratedAt         time.Time `json:"generated_at"`
	ReportData          Summary   `json:"report_data"`
	AdminSummary        string    `json:"admin_summary"`
	AdminRecommendation string    `json:"admin_recommendation"`
}

// DraftResponse AI 生成的回复草稿
type DraftResponse struct {
	RequestID uint   `json:"request_id"`
	Draft     string `json:"draft"`
}

// RecordStats GET /records/stats 各类记录的数量统计
type RecordStats struct {
	Days         int            `json:"days"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	TotalRecords int            `json:"total_records"`
	Counts       map[string]int `json:"counts"`

	ExerciseMinutes    int            `json:"exercise_minutes"`
	MoodDistribution   map[string]int `json:"mood_distribution"`
	HealthDistribution map[string]int `json:"health_distribution"`
}

// SeriesTrend 一条每日序列和它的走势
type SeriesTrend struct {
	Direction string       `json:"direction"`
	Points    []DailyValue `json:"points"`
}

// TrendsResponse GET /reports/trends
type TrendsResponse struct {
	Period      string        `json:"period"`
	WindowStart string        `json:"windowStart"`
	WindowEnd   string        `json:"windowEnd"`
	Food        SeriesTrend   `json:"food"`
	Exercise    SeriesTrend   `json:"exercise"`
	Mood        SeriesTrend   `json:"mood"`
	Weight      []WeightPoint `json:"weight"`
}

// DashboardResponse 管理员首页
type DashboardResponse struct {
	UserStats struct {
		Total  int64 `json:"total"`
		Active int64 `json:"active"`
		Admin  int64 `json:"admin"`
	} `json:"user_stats"`
	PendingAdvice       int64          `json:"pending_advice"`
	ActiveAnnouncements int64          `json:"active_announcements"`
	RecentUsers         []UserResponse `json:"recent_users"`
	RecentLogs          []ActivityLog  `json:"recent_logs"`
}
