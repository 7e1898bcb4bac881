package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Weekdays is a bit set indexed by time.Weekday.
type Weekdays uint8

func (w Weekdays) Has(day time.Weekday) bool {
	return w&(1<<uint(day)) != 0
}

func (w Weekdays) Overlaps(other Weekdays) bool {
	return w&other != 0
}

func (w Weekdays) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if w.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func weekdaysOf(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w |= 1 << uint(d)
	}
	return w
}

// Schedule is a weekly slot: a set of weekdays and a [Start, End) range in
// minutes after midnight.
type Schedule struct {
	Days  Weekdays
	Start int
	End   int
}

func (s Schedule) Overlaps(other Schedule) bool {
	if !s.Days.Overlaps(other.Days) {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

func (s Schedule) String() string {
	names := make([]string, 0, 7)
	for _, d := range s.Days.Days() {
		names = append(names, d.String()[:3])
	}
	return fmt.Sprintf("%s %s-%s", strings.Join(names, "/"), formatMinutes(s.Start), formatMinutes(s.End))
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

var (
	weekdaysAll = weekdaysOf(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday)

	dayAliases = map[string]Weekdays{
		"mon": weekdaysOf(time.Monday), "monday": weekdaysOf(time.Monday),
		"tue": weekdaysOf(time.Tuesday), "tues": weekdaysOf(time.Tuesday), "tuesday": weekdaysOf(time.Tuesday),
		"wed": weekdaysOf(time.Wednesday), "wednesday": weekdaysOf(time.Wednesday),
		"thu": weekdaysOf(time.Thursday), "thur": weekdaysOf(time.Thursday), "thurs": weekdaysOf(time.Thursday), "thursday": weekdaysOf(time.Thursday),
		"fri": weekdaysOf(time.Friday), "friday": weekdaysOf(time.Friday),
		"sat": weekdaysOf(time.Saturday), "saturday": weekdaysOf(time.Saturday),
		"sun": weekdaysOf(time.Sunday), "sunday": weekdaysOf(time.Sunday),

		"mwf":      weekdaysOf(time.Monday, time.Wednesday, time.Friday),
		"tts":      weekdaysOf(time.Tuesday, time.Thursday, time.Saturday),
		"daily":    weekdaysAll,
		"weekdays": weekdaysOf(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday),
		"weekends": weekdaysOf(time.Saturday, time.Sunday),
	}

	// start [am|pm] - end [am|pm], anchored at the end of the descriptor.
	timeRangePattern = regexp.MustCompile(`(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*-\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

	daySeparators = regexp.MustCompile(`[\s,/&+]+`)

	spacedHyphen = regexp.MustCompile(`\s*-\s*`)

	dashReplacer = strings.NewReplacer("–", "-", "—", "-", "−", "-")
)

// Parse reads descriptors such as "Mon/Wed/Fri 16:00-17:00", "MWF 4-5 PM" or
// "Tuesday, Thursday 9:30am - 11am". It reports false for anything it cannot
// read completely.
func Parse(descriptor string) (Schedule, bool) {
	text := strings.ToLower(strings.TrimSpace(descriptor))
	text = dashReplacer.Replace(text)
	if text == "" {
		return Schedule{}, false
	}

	loc := timeRangePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return Schedule{}, false
	}

	start, end, ok := parseTimeRange(text, loc)
	if !ok {
		return Schedule{}, false
	}

	days, ok := parseDays(text[:loc[0]])
	if !ok {
		return Schedule{}, false
	}

	return Schedule{Days: days, Start: start, End: end}, true
}

// parseDays reads day lists. A pair joined by a hyphen is an inclusive range
// that may wrap through Sunday ("Mon-Fri", "Fri-Mon"); three or more days
// joined by hyphens are a list ("Mon-Wed-Fri").
func parseDays(text string) (Weekdays, bool) {
	text = spacedHyphen.ReplaceAllString(strings.TrimSpace(text), "-")

	var days Weekdays
	for _, token := range daySeparators.Split(text, -1) {
		if token == "" {
			continue
		}
		d, ok := parseDayToken(token)
		if !ok {
			return 0, false
		}
		days |= d
	}
	return days, days != 0
}

func parseDayToken(token string) (Weekdays, bool) {
	parts := strings.Split(token, "-")
	if len(parts) == 2 {
		from, fromOK := singleDay(parts[0])
		to, toOK := singleDay(parts[1])
		if fromOK && toOK {
			return dayRange(from, to), true
		}
	}

	var days Weekdays
	for _, part := range parts {
		if part == "" {
			continue
		}
		d, ok := dayAliases[part]
		if !ok {
			return 0, false
		}
		days |= d
	}
	return days, days != 0
}

func singleDay(name string) (time.Weekday, bool) {
	w, ok := dayAliases[name]
	if !ok || w&(w-1) != 0 {
		return 0, false
	}
	days := w.Days()
	return days[0], true
}

func dayRange(from, to time.Weekday) Weekdays {
	var w Weekdays
	for d := from; ; d = (d + 1) % 7 {
		w |= weekdaysOf(d)
		if d == to {
			return w
		}
	}
}

func parseTimeRange(text string, loc []int) (int, int, bool) {
	group := func(i int) string {
		if loc[2*i] < 0 {
			return ""
		}
		return text[loc[2*i]:loc[2*i+1]]
	}

	startMeridiem := group(3)
	endMeridiem := group(6)
	// "4-5 pm" shares the trailing meridiem, "11-1 pm" starts in the morning.
	inherited := startMeridiem == "" && endMeridiem != ""
	if inherited {
		startMeridiem = endMeridiem
	}

	end, ok := clockMinutes(group(4), group(5), endMeridiem)
	if !ok {
		return 0, 0, false
	}
	start, ok := clockMinutes(group(1), group(2), startMeridiem)
	if ok && inherited && start >= end && startMeridiem == "pm" {
		start, ok = clockMinutes(group(1), group(2), "am")
	}
	if !ok || start >= end {
		return 0, 0, false
	}
	return start, end, true
}

func clockMinutes(hourText, minuteText, meridiem string) (int, bool) {
	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return 0, false
	}
	minute := 0
	if minuteText != "" {
		minute, err = strconv.Atoi(minuteText)
		if err != nil || minute > 59 {
			return 0, false
		}
	}

	switch meridiem {
	case "":
		if hour > 24 || (hour == 24 && minute != 0) {
			return 0, false
		}
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		hour %= 12
		if meridiem == "pm" {
			hour += 12
		}
	}

	return hour*60 + minute, true
}
