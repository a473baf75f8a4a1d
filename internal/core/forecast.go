package core

import "math"

const (
	HistoryMonths  = 6
	ForecastMonths = 3

	// NoActivityMessage is shown instead of a forecast when history is empty.
	NoActivityMessage = "Add transactions and subscriptions to unlock personalized forecasts."
)

// ForecastPoint is a projected month chained after the last historical bucket.
// Income and Expense are never negative.
type ForecastPoint MonthBucket

// TrendSummary compares the start and end of a history and its projection.
type TrendSummary struct {
	ActualChangePct    float64 `json:"actualChangePct"`
	ProjectedChangePct float64 `json:"projectedChangePct"`
	LastActual         float64 `json:"lastActual"`
	ProjectedFinal     float64 `json:"projectedFinal"`
}

// AverageChange returns the mean of consecutive differences, or 0 when there
// are fewer than two values.
func AverageChange(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(values); i++ {
		total += SafeAmount(values[i]) - SafeAmount(values[i-1])
	}
	return total / float64(len(values)-1)
}

// Forecast extrapolates income and expense monthsAhead months past the end of
// history using a constant slope: the average month-over-month change. Each
// step is rounded to cents and floored at zero. There is no seasonality and
// no outlier dampening.
func Forecast(history []MonthBucket, monthsAhead int) []ForecastPoint {
	if len(history) == 0 || monthsAhead < 1 {
		return []ForecastPoint{}
	}

	incomes := make([]float64, len(history))
	expenses := make([]float64, len(history))
	for i, b := range history {
		incomes[i] = b.Income
		expenses[i] = b.Expense
	}
	incomeDelta := AverageChange(incomes)
	expenseDelta := AverageChange(expenses)

	last := history[len(history)-1]
	prevIncome, prevExpense := last.Income, last.Expense
	anchor := last.Start.Time

	points := make([]ForecastPoint, 0, monthsAhead)
	for step := 1; step <= monthsAhead; step++ {
		start := AddMonths(anchor, step)
		prevIncome = math.Max(0, Round2(prevIncome+incomeDelta))
		prevExpense = math.Max(0, Round2(prevExpense+expenseDelta))
		points = append(points, ForecastPoint{
			Period:  PeriodKey(start.Time),
			Label:   start.Format("Jan 2006"),
			Start:   start,
			Income:  prevIncome,
			Expense: prevExpense,
		})
	}
	return points
}

// ExpenseTrend summarizes expense movement across history and forecast.
// It returns nil for an empty history.
func ExpenseTrend(history []MonthBucket, forecast []ForecastPoint) *TrendSummary {
	return trend(history, forecast, func(b MonthBucket) float64 { return b.Expense })
}

// IncomeTrend summarizes income movement across history and forecast.
// It returns nil for an empty history.
func IncomeTrend(history []MonthBucket, forecast []ForecastPoint) *TrendSummary {
	return trend(history, forecast, func(b MonthBucket) float64 { return b.Income })
}

func trend(history []MonthBucket, forecast []ForecastPoint, value func(MonthBucket) float64) *TrendSummary {
	if len(history) == 0 {
		return nil
	}
	first := value(history[0])
	last := value(history[len(history)-1])
	projected := last
	if len(forecast) > 0 {
		projected = value(MonthBucket(forecast[len(forecast)-1]))
	}

	s := &TrendSummary{LastActual: last, ProjectedFinal: projected}
	if first > 0 {
		s.ActualChangePct = (last - first) / first * 100
	}
	switch {
	case last > 0:
		s.ProjectedChangePct = (projected - last) / last * 100
	case projected > 0:
		s.ProjectedChangePct = 100
	}
	return s
}
