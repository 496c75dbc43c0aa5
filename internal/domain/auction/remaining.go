package auction

import (
	"strconv"
	"strings"
	"time"

	"lebay/internal/domain/entity"
)

const week = 7 * 24 * time.Hour

// TimeRemaining is the time left until the end, never negative.
func TimeRemaining(event *entity.AuctionEvent, now time.Time) time.Duration {
	return max(event.EndTime.Sub(now), 0)
}

// FormatTimeRemaining renders d as "1 weeks 2 days 3 hours 4 minutes 5 seconds",
// omitting zero units. Anything under a second is "0 seconds".
func FormatTimeRemaining(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d <= 0 {
		return "0 seconds"
	}

	units := []struct {
		size time.Duration
		name string
	}{
		{week, "weeks"},
		{24 * time.Hour, "days"},
		{time.Hour, "hours"},
		{time.Minute, "minutes"},
		{time.Second, "seconds"},
	}

	parts := make([]string, 0, len(units))
	for _, u := range units {
		n := d / u.size
		d -= n * u.size
		if n > 0 {
			parts = append(parts, strconv.FormatInt(int64(n), 10)+" "+u.name)
		}
	}

	return strings.Join(parts, " ")
}
