package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Scoring 心情、身体感受的评分表以及饮食类别的小样本兜底分布。
// 新的心情标签只需要加到配置文件里，不需要改代码。
type Scoring struct {
	MoodScores   map[string]float64 `mapstructure:"mood_scores"`
	MoodLabels   map[string]string  `mapstructure:"mood_labels"`
	HealthScores map[string]float64 `mapstructure:"health_scores"`

	// 已分类的饮食记录少于 MinCategorized 条时，直接使用 FallbackCategories。
	// 这是为了避免极少样本下的占比剧烈波动，可以按需替换成其他估计方法。
	MinCategorized     int            `mapstructure:"min_categorized"`
	FallbackCategories map[string]int `mapstructure:"fallback_categories"`
}

// DefaultScoring 内置评分表
func DefaultScoring() Scoring {
	return Scoring{
		MoodScores: map[string]float64{
			"happy":   5,
			"excited": 5,
			"calm":    4,
			"normal":  3,
			"bored":   3,
			"anxious": 2,
			"sad":     2,
			"tired":   2,
			"angry":   1,
		},
		MoodLabels: map[string]string{
			"happy":   "开心",
			"excited": "兴奋",
			"calm":    "平静",
			"normal":  "一般",
			"bored":   "无聊",
			"anxious": "焦虑",
			"sad":     "难过",
			"tired":   "疲惫",
			"angry":   "生气",
		},
		HealthScores: map[string]float64{
			"energetic": 5,
			"good":      4,
			"normal":    3,
			"tired":     2,
			"sick":      1,
		},
		MinCategorized: 3,
		FallbackCategories: map[string]int{
			"staple":     30,
			"protein":    25,
			"vegetables": 35,
			"snacks":     10,
		},
	}
}

// LoadScoring 读取评分表配置文件(yaml/json/toml)，文件中没有出现的部分沿用默认值
func LoadScoring(file string) (Scoring, error) {
	scoring := DefaultScoring()
	if file == "" {
		return scoring, nil
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return scoring, fmt.Errorf("读取评分配置失败: %w", err)
	}

	var loaded Scoring
	if err := v.Unmarshal(&loaded); err != nil {
		return scoring, fmt.Errorf("解析评分配置失败: %w", err)
	}

	if len(loaded.MoodScores) > 0 {
		scoring.MoodScores = loaded.MoodScores
	}
	if len(loaded.MoodLabels) > 0 {
		scoring.MoodLabels = loaded.MoodLabels
	}
	if len(loaded.HealthScores) > 0 {
		scoring.HealthScores = loaded.HealthScores
	}
	if loaded.MinCategorized > 0 {
		scoring.MinCategorized = loaded.MinCategorized
	}
	if len(loaded.FallbackCategories) > 0 {
		scoring.FallbackCategories = loaded.FallbackCategories
	}
	return scoring, nil
}
