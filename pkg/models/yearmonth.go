package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidYearMonth = errors.New("invalid year-month")

// YearMonth is the roster's unit of planning
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth builds a YearMonth from its packed int form (202601)
func NewYearMonth(packed int) (YearMonth, error) {
	ym := YearMonth{Year: packed / 100, Month: time.Month(packed % 100)}
	if !ym.IsValid() {
		return YearMonth{}, fmt.Errorf("%w: %d", ErrInvalidYearMonth, packed)
	}
	return ym, nil
}

// ParseYearMonth accepts "202601", "2026-01" and "2026/01"
func ParseYearMonth(s string) (YearMonth, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("-", "", "/", "").Replace(s)
	if len(s) != 6 {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return NewYearMonth(n)
}

// IsValid checks the month range
func (ym YearMonth) IsValid() bool {
	return ym.Year > 0 && ym.Month >= time.January && ym.Month <= time.December
}

// Int packs the year-month as YYYYMM
func (ym YearMonth) Int() int {
	return ym.Year*100 + int(ym.Month)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Before reports whether ym is strictly earlier than other
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Int() < other.Int()
}

// Next returns the following month
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// FirstDay returns midnight UTC of the first day of the month
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the weekday of a day of this month
func (ym YearMonth) Weekday(day int) time.Weekday {
	return time.Date(ym.Year, ym.Month, day, 0, 0, 0, 0, time.UTC).Weekday()
}

// DaysIn returns the number of days in the month
func (ym YearMonth) DaysIn() int {
	switch ym.Month {
	case time.February:
		if IsLeapYear(ym.Year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

// IsLeapYear applies the Gregorian rule
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(ym.Int())), nil
}

func (ym *YearMonth) UnmarshalText(text []byte) error {
	parsed, err := ParseYearMonth(string(text))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// UnmarshalJSON accepts both "202601" and 202601
func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	return ym.UnmarshalText([]byte(s))
}
