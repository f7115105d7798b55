package extract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Duration parses elapsed time in [[H:]M:]S form. Hours and minutes are
// integers, seconds may carry a fraction ("83.5"). Anything else is a hard
// failure wrapping ErrInvalidDuration.
func Duration(raw string) (time.Duration, error) {
	text := strings.TrimSpace(raw)
	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}

	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 || math.IsInf(secs, 0) || math.IsNaN(secs) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
	}
	if secs >= float64(math.MaxInt64/int64(time.Second)) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidDuration, text)
	}
	total := time.Duration(secs * float64(time.Second))

	units := []time.Duration{time.Minute, time.Hour}
	for i, j := len(parts)-2, 0; i >= 0; i, j = i-1, j+1 {
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, text)
		}
		if n > math.MaxInt64/int64(units[j]) {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidDuration, text)
		}
		part := time.Duration(n) * units[j]
		if total > math.MaxInt64-part {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidDuration, text)
		}
		total += part
	}
	return total, nil
}
