package models

// SummaryVersion 报告数据结构版本，字段有不兼容变化时递增
const SummaryVersion = 1

// Summary 一段时间窗口内的统计结果，也是 Report.ReportData 的存储格式
type Summary struct {
	Version     int    `json:"version"`
	WindowStart string `json:"windowStart"` // 2006-01-02
	WindowEnd   string `json:"windowEnd"`

	RecordCount int `json:"recordCount"`
	FoodCount   int `json:"foodCount"`

	MealDistribution        MealDistribution     `json:"mealDistribution"`
	FoodCategories          CategoryDistribution `json:"foodCategories"`
	FoodCategoriesEstimated bool                 `json:"foodCategoriesEstimated"`
	RegularityRate          int                  `json:"regularityRate"`

	MoodScore        float64        `json:"moodScore"`
	TopMood          string         `json:"topMood"`
	MoodTrend        string         `json:"moodTrend"`
	MoodDistribution map[string]int `json:"moodDistribution"`

	HealthScore  float64       `json:"healthScore"`
	HealthStats  []HealthDay   `json:"healthStats"`
	CommonIssues []IssueCount  `json:"commonIssues"`
	WeightTrend  []WeightPoint `json:"weightTrend"`
	BMI          *float64      `json:"bmi"`

	ExerciseMinutes   int                   `json:"exerciseMinutes"`
	ExerciseIntensity IntensityDistribution `json:"exerciseIntensity"`

	FoodTrend     []DailyValue `json:"foodTrend"`
	ExerciseTrend []DailyValue `json:"exerciseTrend"`
	MoodSeries    []DailyValue `json:"moodSeries"`

	HealthTip       string   `json:"healthTip"`
	Recommendations []string `json:"recommendations"`
}

// MealDistribution 各餐次占比(%)
type MealDistribution struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
	Snack     int `json:"snack"`
}

// CategoryDistribution 食物类别占比(%)
type CategoryDistribution struct {
	Staple     int `json:"staple"`
	Protein    int `json:"protein"`
	Vegetables int `json:"vegetables"`
	Snacks     int `json:"snacks"`
}

// IntensityDistribution 运动强度占比(%)
type IntensityDistribution struct {
	Light  int `json:"light"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

type WeightPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type DailyValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// HealthDay 某天身体状态记录按感受归类的计数
type HealthDay struct {
	Date   string `json:"date"`
	Good   int    `json:"good"`
	Normal int    `json:"normal"`
	Bad    int    `json:"bad"`
}

type IssueCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}
