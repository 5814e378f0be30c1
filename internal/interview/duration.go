package interview

import (
	"fmt"
	"time"
)

// FormatDuration renders d as M:SS below one hour and H:MM:SS above.
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}

	total := int(d / time.Second)
	if total < 3600 {
		return fmt.Sprintf("%d:%02d", total/60, total%60)
	}
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
