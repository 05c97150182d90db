package models

import "time"

// URL represents a shortened URL record and its associated metadata.
type URL struct {
	// ID is the unique identifier for the shortened URL record.
	ID int64
	// ShortCode is the unique token used as the redirect path segment.
	ShortCode string
	// OriginalURL is the full-length URL that the short code points to.
	OriginalURL string
	// ClickCount tracks the number of successful redirects.
	ClickCount int64
	// CreatedAt is the timestamp indicating when the record was created.
	CreatedAt time.Time
	// ExpiresAt is the expiry timestamp; nil means the URL never expires.
	ExpiresAt *time.Time
}

// Active reports whether the URL is usable at the given time.
func (u *URL) Active(now time.Time) bool {
	return u.ExpiresAt == nil || u.ExpiresAt.After(now)
}

// DashboardStats aggregates totals across all stored URLs.
type DashboardStats struct {
	// TotalURLs is the number of stored records, expired ones included.
	TotalURLs int64
	// TotalClicks is the sum of click counts over all records.
	TotalClicks int64
	// ActiveURLs counts records whose expiry is unset or in the future.
	ActiveURLs int64
	// RecentURLs holds the most recently created records, newest first.
	RecentURLs []URL
}
