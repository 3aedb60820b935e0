package auction

import (
	"fmt"
	"time"
)

// Countdown renders a remaining duration the way every surface of the
// product displays it. Granularity coarsens as the horizon grows: seconds
// drop out beyond a day, days never appear below one.
func Countdown(remaining time.Duration) string {
	if remaining <= 0 {
		return "Auction ended"
	}

	total := int64(remaining / time.Second)

	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
