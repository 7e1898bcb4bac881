package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestComputeJoiningFeeFirstOfMonth(t *testing.T) {
	result, err := ComputeJoiningFee(date(2026, time.January, 1), 1200)
	require.NoError(t, err)

	assert.Equal(t, int64(1200), result.Amount)
	assert.False(t, result.IsProRated)
	assert.Equal(t, "Standard billing cycle (1st of month).", result.Explanation)
	assert.Zero(t, result.DaysRemaining)
}

func TestComputeJoiningFeeMidMonth(t *testing.T) {
	result, err := ComputeJoiningFee(date(2026, time.June, 20), 1200)
	require.NoError(t, err)

	assert.True(t, result.IsProRated)
	assert.Equal(t, 11, result.DaysRemaining)
	assert.Equal(t, 30, result.DaysInMonth)
	assert.Equal(t, int64(440), result.Amount)
	assert.Equal(t, "40", result.DailyRate.String())
	assert.Equal(t, "Joined on 20th. 11 days remaining in month. Pro-rata calculated.", result.Explanation)
}

func TestComputeJoiningFeeLastDayOfMonth(t *testing.T) {
	tests := []struct {
		name string
		day  time.Time
		fee  int64
		want int64
		days int
	}{
		{name: "28 day february", day: date(2026, time.February, 28), fee: 2800, want: 100, days: 28},
		{name: "29 day february", day: date(2024, time.February, 29), fee: 2900, want: 100, days: 29},
		{name: "30 day month", day: date(2026, time.April, 30), fee: 3000, want: 100, days: 30},
		{name: "31 day month", day: date(2026, time.January, 31), fee: 3100, want: 100, days: 31},
		{name: "century non leap year", day: date(1900, time.February, 28), fee: 2800, want: 100, days: 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ComputeJoiningFee(tt.day, tt.fee)
			require.NoError(t, err)
			assert.True(t, result.IsProRated)
			assert.Equal(t, 1, result.DaysRemaining)
			assert.Equal(t, tt.days, result.DaysInMonth)
			assert.Equal(t, tt.want, result.Amount)
		})
	}
}

func TestComputeJoiningFeeRoundsHalfUp(t *testing.T) {
	// 5 * 3 / 30 = 0.5
	result, err := ComputeJoiningFee(date(2026, time.June, 28), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, result.DaysRemaining)
	assert.Equal(t, int64(1), result.Amount)

	// 1000 * 2 / 31 = 64.516...
	result, err = ComputeJoiningFee(date(2026, time.January, 30), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(65), result.Amount)

	// 1000 * 3 / 31 = 96.77...
	result, err = ComputeJoiningFee(date(2026, time.January, 29), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(97), result.Amount)
}

func TestComputeJoiningFeeZeroFee(t *testing.T) {
	result, err := ComputeJoiningFee(date(2026, time.March, 15), 0)
	require.NoError(t, err)
	assert.Zero(t, result.Amount)
	assert.True(t, result.IsProRated)

	result, err = ComputeJoiningFee(date(2026, time.March, 1), 0)
	require.NoError(t, err)
	assert.Zero(t, result.Amount)
	assert.False(t, result.IsProRated)
}

func TestComputeJoiningFeeNegativeFee(t *testing.T) {
	_, err := ComputeJoiningFee(date(2026, time.March, 15), -1)
	require.ErrorIs(t, err, ErrNegativeFee)
}

func TestComputeJoiningFeeIgnoresTimeOfDayAndZone(t *testing.T) {
	zone := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2026, time.June, 20, 23, 59, 0, 0, zone)

	result, err := ComputeJoiningFee(late, 1200)
	require.NoError(t, err)
	assert.Equal(t, 11, result.DaysRemaining)
	assert.Equal(t, int64(440), result.Amount)
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd", 23: "23rd", 31: "31st"}
	for n, want := range cases {
		assert.Equal(t, want, Ordinal(n))
	}
}
