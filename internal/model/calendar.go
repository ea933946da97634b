package model

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDateCount は予約画面に並べる日付の数です
const DefaultDateCount = 14

// ISODateLayout は日付の文字列表現です。辞書順と暦順が一致します
const ISODateLayout = "2006-01-02"

var weekdayLabels = [...]string{"Dom", "Seg", "Ter", "Qua", "Qui", "Sex", "Sáb"}

// CalendarDate は選択可能な1日を表す値オブジェクトです
type CalendarDate struct {
	ISODate     string `json:"full_date"`
	Weekday     string `json:"label"`
	Day         string `json:"day"`
	DisplayDate string `json:"display_date"`
}

// NewCalendarDate は時刻から日付部分だけを取り出してCalendarDateを作成します
func NewCalendarDate(t time.Time) CalendarDate {
	return CalendarDate{
		ISODate:     t.Format(ISODateLayout),
		Weekday:     weekdayLabels[t.Weekday()],
		Day:         fmt.Sprintf("%02d", t.Day()),
		DisplayDate: t.Format("02/01"),
	}
}

// GenerateDates は today を含む連続した n 日分の日付を返します
// 時刻部分は無視し、today のロケーションで日付を進めます
func GenerateDates(today time.Time, n int) []CalendarDate {
	if n <= 0 {
		return []CalendarDate{}
	}

	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	dates := make([]CalendarDate, n)
	for i := 0; i < n; i++ {
		dates[i] = NewCalendarDate(start.AddDate(0, 0, i))
	}
	return dates
}

// ParseISODate は YYYY-MM-DD 形式の日付を検証して返します
func ParseISODate(iso string) (time.Time, error) {
	t, err := time.Parse(ISODateLayout, iso)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid ISO date %q: %w", iso, err)
	}
	return t, nil
}

// FormatBR は YYYY-MM-DD を DD/MM/YYYY に並べ替えます
// 未選択の場合は "---" を返します
func FormatBR(iso string) string {
	if iso == "" {
		return "---"
	}
	parts := strings.Split(iso, "-")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
