package domain

import "time"

// ShareLinkCodeBytes is the number of random bytes in a short link code.
// Encoded as lowercase hex this yields the 8-character public form.
const ShareLinkCodeBytes = 4

// ShareLink maps a short public code to a signed share token. Links are
// deliberately multi-use: resolving one never consumes it, so a single code
// can invite a whole group until the embedded token expires. Rows are only
// removed by the retention sweep.
type ShareLink struct {
	Code      string
	Token     string
	CreatedAt time.Time
}
