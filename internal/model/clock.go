package model

import "time"

const dateLayout = "2006-01-02"

// DateString formats t as the YYYY-MM-DD wire date.
func DateString(t time.Time) string {
	return t.Format(dateLayout)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// WeekStartDate returns the date of the Sunday starting the week that
// contains t, formatted YYYY-MM-DD. Voting weeks begin on Sunday.
func WeekStartDate(t time.Time) string {
	return DateString(t.AddDate(0, 0, -int(t.Weekday())))
}
