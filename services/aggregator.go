package services

import (
	"math"
	"sort"
	"strings"

	"HealthifyGo/config"
	"HealthifyGo/models"
)

const (
	NoDataLabel = "暂无数据"

	TrendUp           = "up"
	TrendDown         = "down"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient data"

	defaultMoodScore   = 3
	defaultHealthScore = 3
	defaultRegularity  = 50

	recentMoodCount   = 3
	moodTrendMargin   = 0.5
	commonIssuesLimit = 5
)

// 每日序列走势
const (
	SeriesRisingFast  = "显著上升"
	SeriesRising      = "略有上升"
	SeriesStable      = "保持稳定"
	SeriesFalling     = "略有下降"
	SeriesFallingFast = "显著下降"
	SeriesNoData      = "数据不足"
)

// AggregateOptions 统计所需的外部数据
type AggregateOptions struct {
	Scoring config.Scoring
	// FoodCategories 食物名(小写) -> 食物库类别
	FoodCategories map[string]string
	// HeightCM 用户资料中的身高，为空时不计算 BMI
	HeightCM *float64
}

// 健康提示规则，按顺序只取第一条命中的
type tipRule struct {
	applies func(s *models.Summary) bool
	tip     string
}

const defaultHealthTip = "保持良好的生活习惯"

var tipRules = []tipRule{
	{func(s *models.Summary) bool { return s.HealthScore < 3 }, "注意休息，保持良好的作息"},
	{func(s *models.Summary) bool { return s.ExerciseMinutes < 60 }, "建议增加运动时间，保持身体活力"},
	{func(s *models.Summary) bool { return s.FoodCount < 5 }, "注意饮食规律，保持营养均衡"},
}

// Aggregate 把一个用户的记录汇总成统计结果。纯计算，不访问存储。
// 窗口外的记录会被忽略，空输入返回各项默认值。
func Aggregate(records []models.Record, w Window, opts AggregateOptions) *models.Summary {
	inWindow := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r != nil && w.Contains(r.Meta().RecordDate) {
			inWindow = append(inWindow, r)
		}
	}
	sortChronologically(inWindow)

	var (
		foods     []models.FoodRecord
		exercises []models.ExerciseRecord
		moods     []models.MoodRecord
		bodies    []models.BodyStatusRecord
	)
	for _, r := range inWindow {
		switch v := r.(type) {
		case models.FoodRecord:
			foods = append(foods, v)
		case models.ExerciseRecord:
			exercises = append(exercises, v)
		case models.MoodRecord:
			moods = append(moods, v)
		case models.BodyStatusRecord:
			bodies = append(bodies, v)
		}
	}

	s := &models.Summary{
		Version:     models.SummaryVersion,
		WindowStart: w.Start.Format(models.DateLayout),
		WindowEnd:   w.LastDay().Format(models.DateLayout),
		RecordCount: len(inWindow),
		FoodCount:   len(foods),
	}

	aggregateFood(s, foods, opts)
	aggregateExercise(s, exercises)
	aggregateMood(s, moods, opts.Scoring)
	aggregateBody(s, bodies, opts)

	s.HealthTip = defaultHealthTip
	s.Recommendations = []string{}
	for _, rule := range tipRules {
		if rule.applies(s) {
			if len(s.Recommendations) == 0 {
				s.HealthTip = rule.tip
			}
			s.Recommendations = append(s.Recommendations, rule.tip)
		}
	}
	if len(s.Recommendations) == 0 {
		s.Recommendations = append(s.Recommendations, defaultHealthTip)
	}
	return s
}

// sortChronologically 按记录日期、创建时间、ID 排序，保证同样的输入得到同样的输出
func sortChronologically(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Meta(), records[j].Meta()
		da, db := models.StoredDay(a.RecordDate), models.StoredDay(b.RecordDate)
		if !da.Equal(db) {
			return da.Before(db)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func aggregateFood(s *models.Summary, foods []models.FoodRecord, opts AggregateOptions) {
	meals := make([]int, len(models.MealTimes))
	categories := make([]int, 4) // staple, protein, vegetables, snacks
	categorized := 0
	perDay := make(map[string]map[string]bool)
	trend := make(map[string]float64)

	for _, f := range foods {
		if i := indexOf(models.MealTimes, f.MealTime); i >= 0 {
			meals[i]++
		}
		if bucket := categoryBucket(opts.FoodCategories[strings.ToLower(f.FoodName)]); bucket >= 0 {
			categories[bucket]++
			categorized++
		}

		day := models.DayKey(f.RecordDate)
		if perDay[day] == nil {
			perDay[day] = make(map[string]bool)
		}
		perDay[day][f.MealTime] = true
		trend[day]++
	}

	pct := percentages(meals)
	s.MealDistribution = models.MealDistribution{
		Breakfast: pct[0],
		Lunch:     pct[1],
		Dinner:    pct[2],
		Snack:     pct[3],
	}

	minCategorized := opts.Scoring.MinCategorized
	if minCategorized <= 0 {
		minCategorized = config.DefaultScoring().MinCategorized
	}
	if categorized < minCategorized {
		fallback := opts.Scoring.FallbackCategories
		if len(fallback) == 0 {
			fallback = config.DefaultScoring().FallbackCategories
		}
		s.FoodCategories = models.CategoryDistribution{
			Staple:     fallback["staple"],
			Protein:    fallback["protein"],
			Vegetables: fallback["vegetables"],
			Snacks:     fallback["snacks"],
		}
		s.FoodCategoriesEstimated = true
	} else {
		pct := percentages(categories)
		s.FoodCategories = models.CategoryDistribution{
			Staple:     pct[0],
			Protein:    pct[1],
			Vegetables: pct[2],
			Snacks:     pct[3],
		}
	}

	dailyMeals := make([]float64, 0, len(perDay))
	for _, m := range perDay {
		dailyMeals = append(dailyMeals, float64(len(m)))
	}
	s.RegularityRate = regularityRate(dailyMeals)
	s.FoodTrend = series(trend)
}

// categoryBucket 食物库类别映射到统计分组，蔬菜和水果合并
func categoryBucket(category string) int {
	switch category {
	case models.CategoryStaple:
		return 0
	case models.CategoryProtein:
		return 1
	case models.CategoryVegetable, models.CategoryFruit:
		return 2
	case models.CategorySnack:
		return 3
	}
	return -1
}

// regularityRate 每天餐次数越稳定分数越高：100 - 变异系数*50，限制在 [0,100]
func regularityRate(dailyMeals []float64) int {
	if len(dailyMeals) == 0 {
		return defaultRegularity
	}
	mean := 0.0
	for _, v := range dailyMeals {
		mean += v
	}
	mean /= float64(len(dailyMeals))
	if mean == 0 {
		return defaultRegularity
	}
	variance := 0.0
	for _, v := range dailyMeals {
		variance += (v - mean) * (v - mean)
	}
	stddev := math.Sqrt(variance / float64(len(dailyMeals)))
	rate := 100 - (stddev/mean)*50
	return int(math.Round(math.Max(0, math.Min(100, rate))))
}

func aggregateExercise(s *models.Summary, exercises []models.ExerciseRecord) {
	intensity := make([]int, len(models.Intensities))
	trend := make(map[string]float64)
	for _, e := range exercises {
		s.ExerciseMinutes += e.Duration
		if i := indexOf(models.Intensities, e.Intensity); i >= 0 {
			intensity[i]++
		}
		trend[models.DayKey(e.RecordDate)] += float64(e.Duration)
	}
	pct := percentages(intensity)
	s.ExerciseIntensity = models.IntensityDistribution{Light: pct[0], Medium: pct[1], High: pct[2]}
	s.ExerciseTrend = series(trend)
}

func aggregateMood(s *models.Summary, moods []models.MoodRecord, scoring config.Scoring) {
	counts := make(map[string]int)
	var scores []float64
	daySum := make(map[string]float64)
	dayCount := make(map[string]float64)

	for _, m := range moods {
		if m.MoodType == "" {
			continue
		}
		counts[m.MoodType]++
		score, ok := scoring.MoodScores[m.MoodType]
		if !ok {
			continue
		}
		scores = append(scores, score)
		day := models.DayKey(m.RecordDate)
		daySum[day] += score
		dayCount[day]++
	}

	s.MoodDistribution = counts
	s.MoodScore = defaultMoodScore
	if len(scores) > 0 {
		s.MoodScore = round(mean(scores), 2)
	}
	s.TopMood = topMood(counts, scoring.MoodLabels)
	s.MoodTrend = moodTrend(scores)

	daily := make(map[string]float64, len(daySum))
	for day, sum := range daySum {
		daily[day] = round(sum/dayCount[day], 2)
	}
	s.MoodSeries = series(daily)
}

// topMood 出现次数最多的心情，次数相同时取字典序最小的
func topMood(counts map[string]int, labels map[string]string) string {
	best, bestCount := "", 0
	for mood, n := range counts {
		if n > bestCount || (n == bestCount && mood < best) {
			best, bestCount = mood, n
		}
	}
	if best == "" {
		return NoDataLabel
	}
	if label, ok := labels[best]; ok {
		return label
	}
	return best
}

// moodTrend 最近 3 条有效心情分的均值与更早的均值比较。
// 有效记录不足 4 条时，最近部分缩短，保证更早部分至少有 1 条。
func moodTrend(scores []float64) string {
	if len(scores) < 2 {
		return TrendInsufficient
	}
	recent := recentMoodCount
	if recent > len(scores)-1 {
		recent = len(scores) - 1
	}
	split := len(scores) - recent
	diff := mean(scores[split:]) - mean(scores[:split])
	switch {
	case diff > moodTrendMargin:
		return TrendUp
	case diff < -moodTrendMargin:
		return TrendDown
	default:
		return TrendStable
	}
}

func aggregateBody(s *models.Summary, bodies []models.BodyStatusRecord, opts AggregateOptions) {
	var scores []float64
	days := make(map[string]*models.HealthDay)
	issues := make(map[string]int)
	weights := make(map[string]float64)
	var latestWeight *float64

	for _, b := range bodies {
		day := models.DayKey(b.RecordDate)
		if score, ok := opts.Scoring.HealthScores[b.Feeling]; ok {
			scores = append(scores, score)
		}

		hd := days[day]
		if hd == nil {
			hd = &models.HealthDay{Date: day}
			days[day] = hd
		}
		switch b.Feeling {
		case "energetic", "good":
			hd.Good++
		case "normal":
			hd.Normal++
		default:
			hd.Bad++
		}

		for _, tag := range b.Status {
			if tag = strings.TrimSpace(tag); tag != "" {
				issues[tag]++
			}
		}

		// 已按时间排序，同一天后面的记录覆盖前面的
		if b.WeightKG != nil {
			weights[day] = *b.WeightKG
			w := *b.WeightKG
			latestWeight = &w
		}
	}

	s.HealthScore = defaultHealthScore
	if len(scores) > 0 {
		s.HealthScore = round(mean(scores), 2)
	}

	s.HealthStats = make([]models.HealthDay, 0, len(days))
	for _, hd := range days {
		s.HealthStats = append(s.HealthStats, *hd)
	}
	sort.Slice(s.HealthStats, func(i, j int) bool { return s.HealthStats[i].Date < s.HealthStats[j].Date })

	s.CommonIssues = make([]models.IssueCount, 0, len(issues))
	for tag, n := range issues {
		s.CommonIssues = append(s.CommonIssues, models.IssueCount{Type: tag, Count: n})
	}
	sort.Slice(s.CommonIssues, func(i, j int) bool {
		if s.CommonIssues[i].Count != s.CommonIssues[j].Count {
			return s.CommonIssues[i].Count > s.CommonIssues[j].Count
		}
		return s.CommonIssues[i].Type < s.CommonIssues[j].Type
	})
	if len(s.CommonIssues) > commonIssuesLimit {
		s.CommonIssues = s.CommonIssues[:commonIssuesLimit]
	}

	s.WeightTrend = make([]models.WeightPoint, 0, len(weights))
	for day, v := range weights {
		s.WeightTrend = append(s.WeightTrend, models.WeightPoint{Date: day, Value: v})
	}
	sort.Slice(s.WeightTrend, func(i, j int) bool { return s.WeightTrend[i].Date < s.WeightTrend[j].Date })

	s.BMI = computeBMI(latestWeight, opts.HeightCM)
}

// computeBMI 体重(kg) / 身高(m)^2，保留一位小数
func computeBMI(weightKG, heightCM *float64) *float64 {
	if weightKG == nil || heightCM == nil || *heightCM <= 0 || *weightKG <= 0 {
		return nil
	}
	h := *heightCM / 100
	bmi := round(*weightKG/(h*h), 1)
	return &bmi
}

// percentages 每个桶按 count/total*100 四舍五入，总和可能与 100 相差 1
func percentages(counts []int) []int {
	out := make([]int, len(counts))
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return out
	}
	for i, c := range counts {
		out[i] = int(math.Round(float64(c) * 100 / float64(total)))
	}
	return out
}

// seriesDirection 序列后半段均值相对前半段的变化百分比：超过 10% 为显著，超过 5% 为略有
func seriesDirection(points []models.DailyValue) string {
	if len(points) < 2 {
		return SeriesNoData
	}
	mid := len(points) / 2
	first, second := 0.0, 0.0
	for _, p := range points[:mid] {
		first += p.Value
	}
	for _, p := range points[mid:] {
		second += p.Value
	}
	first /= float64(mid)
	second /= float64(len(points) - mid)
	if first <= 0 {
		return SeriesStable
	}
	change := (second - first) / first * 100
	switch {
	case change > 10:
		return SeriesRisingFast
	case change > 5:
		return SeriesRising
	case change < -10:
		return SeriesFallingFast
	case change < -5:
		return SeriesFalling
	default:
		return SeriesStable
	}
}

func series(values map[string]float64) []models.DailyValue {
	out := make([]models.DailyValue, 0, len(values))
	for day, v := range values {
		out = append(out, models.DailyValue{Date: day, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}
