package view

import (
	"fmt"
	"strconv"
	"time"

	"fbconsole/internal/models"
)

const timestampLayout = "2006-01-02 15:04:05"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}

func FrequencyLabel(level models.Frequency) string {
	switch level {
	case models.FrequencyOccasional:
		return "Occasional"
	case models.FrequencyOften:
		return "Often"
	case models.FrequencyAlways:
		return "Always"
	default:
		return ""
	}
}

// FormatFileSize prints sizes below 1 KB as whole bytes and anything larger
// in the biggest fitting unit with two decimals.
func FormatFileSize(bytes int64) string {
	if bytes < 1024 {
		return strconv.FormatInt(max(bytes, 0), 10) + " B"
	}

	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(sizeUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", size, sizeUnits[unit])
}

func FormatTimestamp(epochMs int64) string {
	return time.UnixMilli(epochMs).UTC().Format(timestampLayout)
}
