package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CycleStartDay is the day of month every billing cycle starts on.
const CycleStartDay = 1

const standardCycleExplanation = "Standard billing cycle (1st of month)."

var ErrNegativeFee = errors.New("monthly fee must not be negative")

type JoiningFee struct {
	Amount        int64
	MonthlyFee    int64
	IsProRated    bool
	Explanation   string
	DaysRemaining int
	DaysInMonth   int
	DailyRate     decimal.Decimal
}

// ComputeJoiningFee returns what a student joining on joiningDate owes for the
// current cycle. Only the calendar date of joiningDate is used.
func ComputeJoiningFee(joiningDate time.Time, monthlyFee int64) (JoiningFee, error) {
	if monthlyFee < 0 {
		return JoiningFee{}, ErrNegativeFee
	}

	year, month, day := joiningDate.Date()
	daysInMonth := DaysInMonth(year, month)

	if day == CycleStartDay {
		return JoiningFee{
			Amount:      monthlyFee,
			MonthlyFee:  monthlyFee,
			IsProRated:  false,
			Explanation: standardCycleExplanation,
			DaysInMonth: daysInMonth,
		}, nil
	}

	daysRemaining := daysInMonth - day + 1
	fee := decimal.NewFromInt(monthlyFee)
	days := decimal.NewFromInt(int64(daysInMonth))

	// Rounded once, after the exact fee*remaining/days division.
	amount := fee.Mul(decimal.NewFromInt(int64(daysRemaining))).Div(days).Round(0)

	return JoiningFee{
		Amount:        amount.IntPart(),
		MonthlyFee:    monthlyFee,
		IsProRated:    true,
		Explanation:   fmt.Sprintf("Joined on %s. %d days remaining in month. Pro-rata calculated.", Ordinal(day), daysRemaining),
		DaysRemaining: daysRemaining,
		DaysInMonth:   daysInMonth,
		DailyRate:     fee.Div(days).Round(2),
	}, nil
}

// DaysInMonth uses the proleptic Gregorian calendar.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
