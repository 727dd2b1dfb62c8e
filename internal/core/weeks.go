package core

import "time"

// DefaultWeekCount is the number of selectable week windows generated
// for the round-up screen.
const DefaultWeekCount = 26

// WeekWindow is a 7-day window, Start and End inclusive, with End
// always six days after Start. Both are UTC midnights.
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on a day inside the window.
func (w WeekWindow) Contains(t time.Time) bool {
	day := midnightUTC(t)
	return !day.Before(w.Start) && !day.After(w.End)
}

// GenerateWeeks produces count contiguous week windows walking
// backwards from the week containing ref, most recent week first.
//
// The anchor is the Monday of ref's week under a 1=Sunday..7=Saturday
// weekday numbering: anchor = ref - (weekdayIndex - 2) days. On a
// Sunday this lands on the following Monday, which matches the
// behaviour of stepping to DAY_OF_WEEK index 2 in a Sunday-first
// calendar.
func GenerateWeeks(ref time.Time, count int) []WeekWindow {
	if count <= 0 {
		return nil
	}
	weekdayIndex := int(ref.Weekday()) + 1 // 1=Sunday .. 7=Saturday
	anchor := midnightUTC(ref).AddDate(0, 0, -(weekdayIndex - 2))

	weeks := make([]WeekWindow, 0, count)
	for i := 0; i < count; i++ {
		end := anchor.AddDate(0, 0, 6)
		weeks = append(weeks, WeekWindow{Start: anchor, End: end})
		// 6 forward then 13 back nets to the previous week's start.
		anchor = end.AddDate(0, 0, -13)
	}
	return weeks
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
