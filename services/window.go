package services

import (
	"time"

	"HealthifyGo/models"
)

// 命名周期对应的天数
var periodDays = map[string]int{
	"week":    7,
	"month":   30,
	"quarter": 90,
	"year":    365,
}

// Window 统计时间窗口，日期均为 UTC 零点表示的日历日
type Window struct {
	Start      time.Time
	End        time.Time
	IncludeEnd bool
	Period     string
}

// PeriodWindow 命名周期窗口：[今天-N天, 明天)
func PeriodWindow(period string, now time.Time) (Window, error) {
	days, ok := periodDays[period]
	if !ok {
		return Window{}, validationf("无效的时间周期: %s", period)
	}
	today := models.CalendarDay(now)
	return Window{
		Start:  today.AddDate(0, 0, -days),
		End:    today.AddDate(0, 0, 1),
		Period: period,
	}, nil
}

const maxWindowDays = 3650

// TrailingWindow 截至当前时刻的最近 N 天，结束边界包含今天
func TrailingWindow(days int, now time.Time) (Window, error) {
	if days <= 0 || days > maxWindowDays {
		return Window{}, validationf("无效的天数: %d", days)
	}
	today := models.CalendarDay(now)
	return Window{
		Start:      today.AddDate(0, 0, -days),
		End:        today,
		IncludeEnd: true,
	}, nil
}

// DateRangeWindow 显式起止日期窗口，两端都包含：[start, end]
func DateRangeWindow(start, end string) (Window, error) {
	s, err := time.ParseInLocation(models.DateLayout, start, time.UTC)
	if err != nil {
		return Window{}, validationf("无效的开始日期: %s", start)
	}
	e, err := time.ParseInLocation(models.DateLayout, end, time.UTC)
	if err != nil {
		return Window{}, validationf("无效的结束日期: %s", end)
	}
	if e.Before(s) {
		return Window{}, validationf("开始日期不能晚于结束日期")
	}
	if e.Sub(s) > maxWindowDays*24*time.Hour {
		return Window{}, validationf("时间范围不能超过%d天", maxWindowDays)
	}
	return Window{Start: s, End: e, IncludeEnd: true}, nil
}

// Contains 判断记录日期是否落在窗口内
func (w Window) Contains(recordDate time.Time) bool {
	d := models.StoredDay(recordDate)
	if d.Before(w.Start) {
		return false
	}
	if w.IncludeEnd {
		return !d.After(w.End)
	}
	return d.Before(w.End)
}

// LastDay 窗口内的最后一天
func (w Window) LastDay() time.Time {
	if w.IncludeEnd {
		return w.End
	}
	return w.End.AddDate(0, 0, -1)
}
