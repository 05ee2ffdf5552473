package model

import (
	"strconv"
)

// FormatFrequency renders a frequency in Hz the way the receiver UI shows it:
// GHz with up to 10 significant digits, MHz with 7, KHz with 4, plain Hz
// below that. Trailing zeros are dropped, so 91500000 becomes "91.5MHz".
func FormatFrequency(hz int64) string {
	f := float64(hz)
	neg := f < 0
	if neg {
		f = -f
	}

	var (
		scaled float64
		prec   int
		suffix string
	)
	switch {
	case f >= 1e9:
		scaled, prec, suffix = f/1e9, 10, "GHz"
	case f >= 1e6:
		scaled, prec, suffix = f/1e6, 7, "MHz"
	case f >= 1e3:
		scaled, prec, suffix = f/1e3, 4, "KHz"
	default:
		return strconv.FormatInt(hz, 10)
	}

	s := strconv.FormatFloat(scaled, 'g', prec, 64)
	if neg {
		s = "-" + s
	}
	return s + suffix
}

// FrequencyDigits is the raw decimal form used in search text.
func FrequencyDigits(hz int64) string {
	return strconv.FormatInt(hz, 10)
}
