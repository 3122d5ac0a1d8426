package eventlog

import "fmt"

// IsLeap reports whether year is a leap year in the Gregorian
// calendar: divisible by 4, and not divisible by 100 unless also
// divisible by 400.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var daysInMonthCommon = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func daysInMonth(year, month int) int {
	if month == 2 && IsLeap(year) {
		return 29
	}
	return daysInMonthCommon[month-1]
}

// civilFromDays converts a day count since 1970-01-01 (the Unix epoch
// date) into a Gregorian (year, month, day), assuming days >= 0.
func civilFromDays(days int64) (year, month, day int) {
	year = 1970
	for {
		length := int64(365)
		if IsLeap(year) {
			length = 366
		}
		if days < length {
			break
		}
		days -= length
		year++
	}

	month = 1
	for {
		length := int64(daysInMonth(year, month))
		if days < length {
			break
		}
		days -= length
		month++
	}

	day = int(days) + 1
	return year, month, day
}

// FormatISO8601UTC converts a non-negative Unix timestamp into an
// ISO-8601 UTC string ("YYYY-MM-DDTHH:MM:SSZ") using only integer
// arithmetic over the Gregorian calendar — no time-formatting library.
func FormatISO8601UTC(unixSeconds int64) string {
	days := unixSeconds / 86400
	secOfDay := unixSeconds % 86400
	if secOfDay < 0 {
		secOfDay += 86400
		days--
	}

	year, month, day := civilFromDays(days)
	hour := secOfDay / 3600
	minute := (secOfDay % 3600) / 60
	second := secOfDay % 60

	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ", year, month, day, hour, minute, second)
}
