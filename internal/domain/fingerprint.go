package domain

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Fingerprint returns the first 8 hex characters of the MD5 of s. All
// dashboard and panel identifiers derive this way; the format is byte
// compatible with documents produced by earlier versions of the store.
func Fingerprint(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

// DashboardUID derives from the title alone, so re-creating a dashboard with
// the same title yields the same uid.
func DashboardUID(title string) string {
	return Fingerprint(title)
}

// DashboardID salts the title with the creation instant so repeated creates
// of the same title get distinct ids while keeping the same uid.
func DashboardID(title string, now time.Time) string {
	return Fingerprint(title + now.Format(time.RFC3339Nano))
}

// ImportedDashboardID derives from the title alone, which makes importing
// the same document an upsert onto one row.
func ImportedDashboardID(title string) string {
	return Fingerprint(title)
}

// PanelID derives from the owning dashboard and the panel title. Two panels
// with the same title on one dashboard share an id.
func PanelID(dashboardID, title string) string {
	return Fingerprint(dashboardID + "/" + title)
}
