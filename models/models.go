package models

// All 返回需要迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&RecordRow{},
		&Report{},
		&AdviceRequest{},
		&ManualSuggestion{},
		&Food{},
		&Announcement{},
		&ActivityLog{},
		&SystemSetting{},
	}
}
