package forecast

import (
	"math"
	"time"
)

const (
	ComponentTrend  = "trend"
	ComponentWeekly = "weekly"
	ComponentYearly = "yearly"
)

type seasonality struct {
	name   string
	period float64 // days
	order  int
}

// daysSinceEpoch is the absolute time axis used by the Fourier terms, so a
// seasonal shape does not depend on where the history starts.
func daysSinceEpoch(t time.Time) float64 {
	return float64(t.Unix()) / 86400
}

// fourier appends 2*order sin/cos terms for t to dst.
func fourier(dst []float64, t time.Time, s seasonality) []float64 {
	x := daysSinceEpoch(t)
	for k := 1; k <= s.order; k++ {
		arg := 2 * math.Pi * float64(k) * x / s.period
		dst = append(dst, math.Sin(arg), math.Cos(arg))
	}
	return dst
}

// changepointIndexes spreads count changepoints over the first histSize
// observations, excluding the very first one.
func changepointIndexes(histSize, count int) []int {
	if count+1 > histSize {
		count = histSize - 1
	}
	if count <= 0 {
		return nil
	}
	idx := make([]int, 0, count)
	step := float64(histSize-1) / float64(count)
	for i := 1; i <= count; i++ {
		idx = append(idx, int(math.Round(step*float64(i))))
	}
	return idx
}

// Reference periods used for the decomposition profiles. 2017-01-01 is a
// Sunday, so the weekly profile reads Sunday..Saturday.
var referenceStart = time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC)

func referenceDates(days int) []time.Time {
	out := make([]time.Time, days)
	for i := range out {
		out[i] = referenceStart.AddDate(0, 0, i)
	}
	return out
}
