package services

import (
	"HealthifyGo/config"

	"github.com/tmc/langchaingo/llms"
	"gorm.io/gorm"
)

// Services 所有服务的集合，启动时创建一次
type Services struct {
	Users         *UserService
	Records       *RecordService
	Reports       *ReportService
	Advice        *AdviceService
	Drafter       *AdviceDrafter
	Foods         *FoodService
	Announcements *AnnouncementService
	Suggestions   *SuggestionService
	Activity      *ActivityService
	Settings      *SettingService
	Dashboard     *DashboardService
}

// New model 可以为 nil，此时草稿接口返回 503
func New(db *gorm.DB, cache SummaryCache, scoring config.Scoring, model llms.Model) *Services {
	records := NewRecordService(db, cache)
	foods := NewFoodService(db, cache)
	reports := NewReportService(db, records, foods, scoring, cache)
	advice := NewAdviceService(db)
	return &Services{
		Users:         NewUserService(db, cache),
		Records:       records,
		Reports:       reports,
		Advice:        advice,
		Drafter:       NewAdviceDrafter(model, advice, reports),
		Foods:         foods,
		Announcements: NewAnnouncementService(db),
		Suggestions:   NewSuggestionService(db),
		Activity:      NewActivityService(db),
		Settings:      NewSettingService(db),
		Dashboard:     NewDashboardService(db),
	}
}
