package fees

// fallbackMonthlyFees applies when no active fee structure exists for a class.
var fallbackMonthlyFees = map[string]int64{
	"Class 1":  1000,
	"Class 2":  1200,
	"Class 3":  1400,
	"Class 4":  1500,
	"Class 5":  1600,
	"Class 6":  1800,
	"Class 7":  2000,
	"Class 8":  2200,
	"Class 9":  2500,
	"Class 10": 3000,
	"Class 11": 3500,
	"Class 12": 4000,
}

// FallbackMonthlyFee reports the static fee for className, 0 when unknown.
func FallbackMonthlyFee(className string) int64 {
	return fallbackMonthlyFees[className]
}
