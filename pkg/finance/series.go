package finance

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/mathutil"
)

// SeriesPoint is one chart point: a running quantity at the end of a period.
type SeriesPoint struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// MonthLabel returns "Month i".
func MonthLabel(i int) string {
	return fmt.Sprintf("Month %d", i)
}

// YearLabel returns "Year i".
func YearLabel(i int) string {
	return fmt.Sprintf("Year %d", i)
}

// AgeLabel returns "Age n".
func AgeLabel(age int) string {
	return fmt.Sprintf("Age %d", age)
}

// BuildSeries evaluates valueAt for periods 0..n inclusive and rounds each
// point to whole units.
func BuildSeries(n int, label func(int) string, valueAt func(int) float64) []SeriesPoint {
	if n < 0 {
		return nil
	}
	points := make([]SeriesPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		points = append(points, SeriesPoint{Label: label(i), Value: mathutil.RoundUnit(valueAt(i))})
	}
	return points
}
