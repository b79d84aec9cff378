package feed

import (
	"fmt"
	"time"
)

// RelativeTime renders how long ago date was, as seen at now. Anything a week
// or older is rendered as a short US date (M/D/YYYY).
func RelativeTime(now, date time.Time) string {
	secs := int64(now.Sub(date) / time.Second)
	mins := secs / 60
	hours := mins / 60
	days := hours / 24

	switch {
	case secs < 60:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	}
	return date.Format("1/2/2006")
}
