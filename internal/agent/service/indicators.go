package service

// SMASeries computes a simple moving average over closes. Entries before
// the window fills are nil, matching a rolling mean with a minimum period
// equal to the window.
func SMASeries(closes []float64, window int) []*float64 {
	out := make([]*float64, len(closes))
	if window <= 0 || len(closes) < window {
		return out
	}

	var sum float64
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			avg := sum / float64(window)
			out[i] = &avg
		}
	}
	return out
}

// EMASeries computes an exponential moving average with alpha = 2/(span+1),
// seeded with the first close. All entries are populated.
func EMASeries(closes []float64, span int) []*float64 {
	out := make([]*float64, len(closes))
	if span <= 0 || len(closes) == 0 {
		return out
	}

	alpha := 2.0 / (float64(span) + 1.0)
	ema := closes[0]
	for i, c := range closes {
		if i > 0 {
			ema = alpha*c + (1-alpha)*ema
		}
		v := ema
		out[i] = &v
	}
	return out
}
