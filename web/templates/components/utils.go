package components

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mergestat/timediff"

	"github.com/CYule/vibe-gallery/internal/database"
)

// FormatRelativeTime formats a time.Time as a relative time string like "3 days ago"
func FormatRelativeTime(t time.Time) string {
	return timediff.TimeDiff(t)
}

// FormatLikeCount formats a like count with thousands separators
func FormatLikeCount(count int64) string {
	return humanize.Comma(count)
}

// MonetizationLabel returns the badge text for a monetization status.
func MonetizationLabel(status database.MonetizationStatus, amount *float64) string {
	switch status {
	case database.MonetizationVerified:
		if amount != nil {
			return fmt.Sprintf("Verified $%s/mo", humanize.Commaf(*amount))
		}
		return "Verified revenue"
	case database.MonetizationSelfReported:
		return "Making money"
	case database.MonetizationTrying:
		return "Trying to monetize"
	default:
		return "Not monetized"
	}
}
