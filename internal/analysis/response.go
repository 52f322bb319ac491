package analysis

import "math"

// Response summarizes how a trace approaches a target value.
type Response struct {
	Final      float64
	Peak       float64
	Overshoot  float64 // past target, as a fraction of the initial distance
	SettleTime float64 // -1 if never settled
}

// StepResponse measures values against target. The trace settles at the
// first time after which every sample stays within tol of target.
func StepResponse(times, values []float64, target, tol float64) (Response, error) {
	n := min(len(times), len(values))
	if n == 0 {
		return Response{}, ErrTooShort
	}

	r := Response{Final: values[n-1], Peak: values[0], SettleTime: -1}
	start := values[0]
	dir := math.Copysign(1, target-start)

	for i := n - 1; i >= 0; i-- {
		if math.Abs(values[i]-target) > tol {
			if i+1 < n {
				r.SettleTime = times[i+1] - times[0]
			}
			break
		}
		if i == 0 {
			r.SettleTime = 0
		}
	}

	var past float64
	for _, v := range values[:n] {
		if (v-r.Peak)*dir > 0 {
			r.Peak = v
		}
		past = math.Max(past, (v-target)*dir)
	}
	if span := math.Abs(target - start); span > 0 {
		r.Overshoot = past / span
	}
	return r, nil
}
