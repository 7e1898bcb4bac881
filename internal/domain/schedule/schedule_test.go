package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		descriptor string
		days       []time.Weekday
		start      string
		end        string
	}{
		{name: "slash list", descriptor: "Mon/Wed/Fri 16:00-17:00", days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}, start: "16:00", end: "17:00"},
		{name: "en dash", descriptor: "Mon/Wed/Fri 16:00–17:00", days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}, start: "16:00", end: "17:00"},
		{name: "shorthand", descriptor: "MWF 16:00-17:00", days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}, start: "16:00", end: "17:00"},
		{name: "tts", descriptor: "TTS 09:00-10:30", days: []time.Weekday{time.Tuesday, time.Thursday, time.Saturday}, start: "09:00", end: "10:30"},
		{name: "daily", descriptor: "Daily 07:00-08:00", days: []time.Weekday{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday}, start: "07:00", end: "08:00"},
		{name: "dash separated days with shared meridiem", descriptor: "Mon-Wed-Fri 4-5 PM", days: []time.Weekday{time.Monday, time.Wednesday, time.Friday}, start: "16:00", end: "17:00"},
		{name: "full names and spaced range", descriptor: "Tuesday, Thursday 9:30am - 11am", days: []time.Weekday{time.Tuesday, time.Thursday}, start: "09:30", end: "11:00"},
		{name: "morning start with trailing pm", descriptor: "Sat 11-1 pm", days: []time.Weekday{time.Saturday}, start: "11:00", end: "13:00"},
		{name: "noon", descriptor: "Sun 12pm-1pm", days: []time.Weekday{time.Sunday}, start: "12:00", end: "13:00"},
		{name: "weekends", descriptor: "weekends 10:00-12:00", days: []time.Weekday{time.Sunday, time.Saturday}, start: "10:00", end: "12:00"},
		{name: "day range", descriptor: "Mon-Fri 9:00-10:00", days: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, start: "09:00", end: "10:00"},
		{name: "spaced day range", descriptor: "Tue - Thu 18:00-19:00", days: []time.Weekday{time.Tuesday, time.Wednesday, time.Thursday}, start: "18:00", end: "19:00"},
		{name: "wrapping day range", descriptor: "Fri-Mon 07:00-08:00", days: []time.Weekday{time.Sunday, time.Monday, time.Friday, time.Saturday}, start: "07:00", end: "08:00"},
		{name: "range and list", descriptor: "Mon-Wed, Sat 07:00-08:00", days: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Saturday}, start: "07:00", end: "08:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := Parse(tt.descriptor)
			require.True(t, ok)
			assert.Equal(t, tt.days, parsed.Days.Days())
			assert.Equal(t, tt.start, formatMinutes(parsed.Start))
			assert.Equal(t, tt.end, formatMinutes(parsed.End))
		})
	}
}

func TestParseRejectsFreeText(t *testing.T) {
	for _, descriptor := range []string{
		"",
		"Evenings",
		"Mon",
		"16:00-17:00",
		"Mon 17:00-16:00",
		"Mon 22:00-01:00",
		"Mon 16:00-17:00 (hall B)",
		"Funday 16:00-17:00",
		"Mon-Funday 16:00-17:00",
		"Mon 16:75-17:00",
		"Mon 13pm-14pm",
	} {
		_, ok := Parse(descriptor)
		assert.False(t, ok, descriptor)
	}
}

func TestHasConflictBoundaries(t *testing.T) {
	assert.False(t, HasConflict("Mon 16:00–17:00", []string{"Mon 17:00–18:00"}).Conflict)

	result := HasConflict("Mon 16:00–17:00", []string{"Tue 16:00-17:00", "Mon 16:59–18:00"})
	assert.True(t, result.Conflict)
	assert.Equal(t, "Mon 16:59–18:00", result.With)
}

func TestHasConflictRequiresSharedDay(t *testing.T) {
	assert.False(t, Conflicts("MWF 16:00-17:00", "TTS 16:00-17:00"))
	assert.True(t, Conflicts("MWF 16:00-17:00", "Fri 16:30-16:45"))
	assert.True(t, Conflicts("Daily 07:00-08:00", "Sun 06:00-07:30"))
}

func TestHasConflictDayRanges(t *testing.T) {
	assert.True(t, Conflicts("Mon-Fri 9:00-10:00", "Wed 9:30-10:30"))
	assert.True(t, Conflicts("Fri-Mon 9:00-10:00", "Sun 9:30-10:30"))
	assert.False(t, Conflicts("Fri-Mon 9:00-10:00", "Wed 9:30-10:30"))
	assert.False(t, Conflicts("Mon-Wed-Fri 9:00-10:00", "Thu 9:30-10:30"))
}

func TestHasConflictUnparseableFallback(t *testing.T) {
	assert.True(t, Conflicts("Evening batch", " Evening batch "))
	assert.False(t, Conflicts("Evening batch", "Morning batch"))
	assert.False(t, Conflicts("Evening batch", "Mon 16:00-17:00"))
	assert.False(t, Conflicts("Mon 16:00-17:00", "Evening batch"))
	assert.False(t, Conflicts("", ""))
	assert.False(t, HasConflict("Mon 16:00-17:00", nil).Conflict)
}

func TestHasConflictIsSymmetric(t *testing.T) {
	descriptors := []string{
		"Mon 16:00-17:00",
		"Mon 17:00-18:00",
		"Mon 16:59-18:00",
		"MWF 4-5 PM",
		"Tue/Thu 09:00-10:00",
		"Daily 06:00-07:00",
		"Evening batch",
		"Evening batch",
		"Sat 11-1 pm",
		"Mon-Fri 9:00-10:00",
		"Wed 9:30-10:30",
		"Fri-Mon 9:00-10:00",
		"Sun 09:45-11:00",
		"",
	}

	for _, a := range descriptors {
		for _, b := range descriptors {
			assert.Equal(t, Conflicts(a, b), Conflicts(b, a), "%q vs %q", a, b)
		}
	}
}

func TestScheduleString(t *testing.T) {
	parsed, ok := Parse("fri/mon 4:05pm-17:00")
	require.True(t, ok)
	assert.Equal(t, "Mon/Fri 16:05-17:00", parsed.String())
}
