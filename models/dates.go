package models

import "time"

// CalendarDay 取 t 在其自身时区下的日历日期，用 UTC 零点表示
func CalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StoredDay 记录日期统一按 UTC 零点存储，读回后无论驱动转换成哪个时区都还原成同一天
func StoredDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey 记录日期对应的 2006-01-02 字符串
func DayKey(t time.Time) string {
	return StoredDay(t).Format(DateLayout)
}
