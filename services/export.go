package services

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"HealthifyGo/models"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "报告概览"
	trendSheet   = "每日趋势"
)

// Export 把报告导出为 xlsx，权限同 Get
func (s *ReportService) Export(ctx context.Context, reportID uint, requester Requester) ([]byte, error) {
	report, err := s.Get(ctx, reportID, requester)
	if err != nil {
		return nil, err
	}
	return ReportWorkbook(report)
}

// ReportWorkbook 生成两张表：概览和按天趋势
func ReportWorkbook(report *models.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(trendSheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, report, headerStyle); err != nil {
		return nil, err
	}
	if err := writeTrendSheet(f, &report.ReportData, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report *models.Report, headerStyle int) error {
	s := report.ReportData
	bmi := "-"
	if s.BMI != nil {
		bmi = fmt.Sprintf("%.1f", *s.BMI)
	}
	rows := [][]interface{}{
		{"项目", "数值"},
		{"报告类型", report.ReportType},
		{"开始日期", report.StartDate},
		{"结束日期", report.EndDate},
		{"记录总数", s.RecordCount},
		{"饮食记录数", s.FoodCount},
		{"早餐占比(%)", s.MealDistribution.Breakfast},
		{"午餐占比(%)", s.MealDistribution.Lunch},
		{"晚餐占比(%)", s.MealDistribution.Dinner},
		{"加餐占比(%)", s.MealDistribution.Snack},
		{"用餐规律度(%)", s.RegularityRate},
		{"心情评分", s.MoodScore},
		{"主要心情", s.TopMood},
		{"心情趋势", s.MoodTrend},
		{"身体评分", s.HealthScore},
		{"BMI", bmi},
		{"运动总时长(分钟)", s.ExerciseMinutes},
		{"健康提示", s.HealthTip},
		{"管理员总结", report.AdminSummary},
		{"管理员建议", report.AdminAdvice},
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return f.SetColWidth(summarySheet, "B", "B", 40)
}

// writeTrendSheet 按日期合并饮食、运动、心情和体重序列
func writeTrendSheet(f *excelize.File, s *models.Summary, headerStyle int) error {
	type dayRow struct {
		food, exercise, mood, weight interface{}
	}
	days := map[string]*dayRow{}
	var order []string
	get := func(date string) *dayRow {
		if r, ok := days[date]; ok {
			return r
		}
		r := &dayRow{}
		days[date] = r
		order = append(order, date)
		return r
	}
	for _, v := range s.FoodTrend {
		get(v.Date).food = v.Value
	}
	for _, v := range s.ExerciseTrend {
		get(v.Date).exercise = v.Value
	}
	for _, v := range s.MoodSeries {
		get(v.Date).mood = v.Value
	}
	for _, v := range s.WeightTrend {
		get(v.Date).weight = v.Value
	}
	sort.Strings(order)

	rows := [][]interface{}{{"日期", "饮食记录数", "运动时长(分钟)", "心情评分", "体重(kg)"}}
	for _, date := range order {
		r := days[date]
		rows = append(rows, []interface{}{date, r.food, r.exercise, r.mood, r.weight})
	}
	if err := writeRows(f, trendSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(trendSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	return f.SetPanes(trendSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
