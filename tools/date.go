package tools

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DisplayDateLayout 提示信息中的日期格式
	DisplayDateLayout = "02/01/2006"
	ClockLayout       = "15:04"
)

func FormatDisplayDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// ParseTimeRange 解析 "HH:mm - HH:mm"，要求结束时间晚于开始时间
func ParseTimeRange(s string) (start, end string, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("时间段格式错误: %q", s)
	}
	start, end = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	st, err := time.Parse(ClockLayout, start)
	if err != nil {
		return "", "", fmt.Errorf("开始时间格式错误: %q", start)
	}
	et, err := time.Parse(ClockLayout, end)
	if err != nil {
		return "", "", fmt.Errorf("结束时间格式错误: %q", end)
	}
	if !et.After(st) {
		return "", "", fmt.Errorf("结束时间必须晚于开始时间: %q", s)
	}
	return st.Format(ClockLayout), et.Format(ClockLayout), nil
}
