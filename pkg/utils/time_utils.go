package utils

import "time"

// Seoul time location (KST, +09:00); gateway settlement runs on KST.
var kstLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*3600)
}()

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSeconds converts an epoch value in seconds to KST.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(kstLoc)
}

// FormatRFC3339 renders wire timestamps, e.g. 2025-09-24T15:12:00+09:00.
func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(kstLoc).Format(time.RFC3339)
}

// FormatUnixRFC3339 renders a stored epoch-seconds value, "" when unset.
func FormatUnixRFC3339(t int64) string {
	return FormatRFC3339(FromUnixSeconds(t))
}
