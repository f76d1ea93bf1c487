package models

import (
	"fmt"
	"time"
)

// RecordKind 记录类型
type RecordKind string

const (
	KindExercise   RecordKind = "exercise"
	KindMood       RecordKind = "mood"
	KindFood       RecordKind = "food"
	KindBodyStatus RecordKind = "body_status"
)

func (k RecordKind) Valid() bool {
	switch k {
	case KindExercise, KindMood, KindFood, KindBodyStatus:
		return true
	}
	return false
}

// 各类记录的取值范围
var (
	Intensities = []string{"light", "medium", "high"}
	MealTimes   = []string{"breakfast", "lunch", "dinner", "snack"}
	Feelings    = []string{"energetic", "good", "normal", "tired", "sick"}
)

// RecordBase 所有记录共有的字段
type RecordBase struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	Note       string    `json:"note"`
	RecordDate time.Time `json:"record_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// Record 是四种记录的统一接口，每种记录只携带自己的字段
type Record interface {
	Kind() RecordKind
	Meta() RecordBase
}

type ExerciseRecord struct {
	RecordBase
	ExerciseType string `json:"exercise_type"`
	Duration     int    `json:"duration"` // 分钟
	Intensity    string `json:"intensity"`
}

func (r ExerciseRecord) Kind() RecordKind { return KindExercise }
func (r ExerciseRecord) Meta() RecordBase { return r.RecordBase }

type MoodRecord struct {
	RecordBase
	MoodType string `json:"mood_type"`
}

func (r MoodRecord) Kind() RecordKind { return KindMood }
func (r MoodRecord) Meta() RecordBase { return r.RecordBase }

type FoodRecord struct {
	RecordBase
	FoodName string `json:"food_name"`
	MealTime string `json:"meal_time"`
}

func (r FoodRecord) Kind() RecordKind { return KindFood }
func (r FoodRecord) Meta() RecordBase { return r.RecordBase }

type BodyStatusRecord struct {
	RecordBase
	Feeling  string   `json:"feeling"`
	Status   []string `json:"status"`
	WeightKG *float64 `json:"weight_kg"`
	BMI      *float64 `json:"bmi"`
}

func (r BodyStatusRecord) Kind() RecordKind { return KindBodyStatus }
func (r BodyStatusRecord) Meta() RecordBase { return r.RecordBase }

// RecordRow 记录表，type 列区分记录类型，与类型无关的列为空
type RecordRow struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index:idx_records_user_date;not null" json:"user_id"`
	Type         RecordKind `gorm:"type:varchar(20);index;not null" json:"type"`
	Note         string     `gorm:"type:text" json:"note"`
	RecordDate   time.Time  `gorm:"index:idx_records_user_date" json:"record_date"`
	CreatedAt    time.Time  `json:"created_at"`
	ExerciseType *string    `gorm:"type:varchar(20)" json:"exercise_type,omitempty"`
	Duration     *int       `json:"duration,omitempty"`
	Intensity    *string    `gorm:"type:varchar(10)" json:"intensity,omitempty"`
	MoodType     *string    `gorm:"type:varchar(20)" json:"mood_type,omitempty"`
	FoodName     *string    `gorm:"type:varchar(100)" json:"food_name,omitempty"`
	MealTime     *string    `gorm:"type:varchar(20)" json:"meal_time,omitempty"`
	Feeling      *string    `gorm:"type:varchar(20)" json:"feeling,omitempty"`
	Status       []string   `gorm:"type:text;serializer:json" json:"status,omitempty"`
	WeightKG     *float64   `json:"weight_kg,omitempty"`
	BMI          *float64   `json:"bmi,omitempty"`
}

func (RecordRow) TableName() string {
	return "records"
}

// ToRecord 按 type 列还原为具体记录类型
func (row RecordRow) ToRecord() (Record, error) {
	base := RecordBase{
		ID:         row.ID,
		UserID:     row.UserID,
		Note:       row.Note,
		RecordDate: row.RecordDate,
		CreatedAt:  row.CreatedAt,
	}
	switch row.Type {
	case KindExercise:
		r := ExerciseRecord{RecordBase: base, ExerciseType: deref(row.ExerciseType), Intensity: deref(row.Intensity)}
		if row.Duration != nil {
			r.Duration = *row.Duration
		}
		return r, nil
	case KindMood:
		return MoodRecord{RecordBase: base, MoodType: deref(row.MoodType)}, nil
	case KindFood:
		return FoodRecord{RecordBase: base, FoodName: deref(row.FoodName), MealTime: deref(row.MealTime)}, nil
	case KindBodyStatus:
		return BodyStatusRecord{
			RecordBase: base,
			Feeling:    deref(row.Feeling),
			Status:     row.Status,
			WeightKG:   row.WeightKG,
			BMI:        row.BMI,
		}, nil
	default:
		return nil, fmt.Errorf("unknown record type %q", row.Type)
	}
}

// NewRecordRow 把具体记录展开成记录表的一行
func NewRecordRow(r Record) RecordRow {
	base := r.Meta()
	row := RecordRow{
		ID:         base.ID,
		UserID:     base.UserID,
		Type:       r.Kind(),
		Note:       base.Note,
		RecordDate: base.RecordDate,
		CreatedAt:  base.CreatedAt,
	}
	switch v := r.(type) {
	case ExerciseRecord:
		duration := v.Duration
		row.ExerciseType = ptr(v.ExerciseType)
		row.Duration = &duration
		row.Intensity = ptr(v.Intensity)
	case MoodRecord:
		row.MoodType = ptr(v.MoodType)
	case FoodRecord:
		row.FoodName = ptr(v.FoodName)
		row.MealTime = ptr(v.MealTime)
	case BodyStatusRecord:
		row.Feeling = ptr(v.Feeling)
		row.Status = v.Status
		row.WeightKG = v.WeightKG
		row.BMI = v.BMI
	}
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
