package expiry_test

import (
	"testing"
	"time"

	"github.com/pantryvox/pantryvox/internal/expiry"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// now is a fixed mid-year reference date for every test: 2026-08-28.
var now = time.Date(2026, time.August, 28, 15, 4, 5, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExtractEnglish(t *testing.T) {
	t.Parallel()
	e := expiry.New(types.LocaleEN)

	tests := []struct {
		name   string
		in     string
		want   time.Time
		wantOK bool
	}{
		{"today", "milk expires today", day(2026, time.August, 28), true},
		{"tomorrow", "use by tomorrow", day(2026, time.August, 29), true},
		{"day after tomorrow", "good until the day after tomorrow", day(2026, time.August, 30), true},
		{"in n days", "a bottle of milk, expires in 3 days", day(2026, time.August, 31), true},
		{"word offset", "expires in ten days", day(2026, time.September, 7), true},
		{"days from now", "5 days from now", day(2026, time.September, 2), true},
		{"month day ahead", "best before September 15", day(2026, time.September, 15), true},
		{"abbreviated month", "expires Sep 15th", day(2026, time.September, 15), true},
		{"past date rolls forward", "expires on March 1", day(2027, time.March, 1), true},
		{"same day does not roll", "expires Aug 28", day(2026, time.August, 28), true},
		{"no statement", "three apples and two bananas", time.Time{}, false},
		{"bare number is not a date", "3 apples", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := e.Extract(tt.in, now)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("Extract(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractChinese(t *testing.T) {
	t.Parallel()
	e := expiry.New(types.LocaleZH)

	tests := []struct {
		name   string
		in     string
		want   time.Time
		wantOK bool
	}{
		{"today", "牛奶今天到期", day(2026, time.August, 28), true},
		{"tomorrow", "明天过期", day(2026, time.August, 29), true},
		{"day after tomorrow", "后天到期", day(2026, time.August, 30), true},
		{"big day after tomorrow", "大后天到期", day(2026, time.August, 31), true},
		{"digit offset", "3天后到期", day(2026, time.August, 31), true},
		{"numeral offset", "两天后过期", day(2026, time.August, 30), true},
		{"guo n tian", "过五天到期", day(2026, time.September, 2), true},
		{"month day ahead", "9月15日到期", day(2026, time.September, 15), true},
		{"hao variant", "九月十五号到期", day(2026, time.September, 15), true},
		{"past date rolls forward", "3月1日到期", day(2027, time.March, 1), true},
		{"no statement", "三个苹果两斤牛肉", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := e.Extract(tt.in, now)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("Extract(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		locale types.Locale
		in     string
		want   string
	}{
		{
			"offset phrase removed", types.LocaleEN,
			"three apples and a bottle of milk, expires in 3 days",
			"three apples and a bottle of milk",
		},
		{
			"keyword removed", types.LocaleEN,
			"milk expires tomorrow",
			"milk",
		},
		{
			"month day removed", types.LocaleEN,
			"yogurt best before Sep 15th and two eggs",
			"yogurt and two eggs",
		},
		{
			"nothing to strip", types.LocaleEN,
			"three apples",
			"three apples",
		},
		{
			"chinese keyword removed", types.LocaleZH,
			"牛奶明天到期",
			"牛奶",
		},
		{
			"chinese offset removed", types.LocaleZH,
			"两斤牛肉，3天后到期",
			"两斤牛肉",
		},
		{
			"chinese month day removed", types.LocaleZH,
			"酸奶9月15号到期还有三个苹果",
			"酸奶还有三个苹果",
		},
		{
			"dangling verb with no date removed", types.LocaleEN,
			"the milk expired",
			"the milk",
		},
		{
			"dangling has-expired removed", types.LocaleEN,
			"the yogurt has expired",
			"the yogurt",
		},
		{
			"chinese dangling verb removed", types.LocaleZH,
			"牛奶过期了",
			"牛奶",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := expiry.New(tt.locale)
			if got := e.Strip(tt.in); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
