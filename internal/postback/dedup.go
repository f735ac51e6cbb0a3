package postback

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultFallbackBucket = time.Hour

// keyEscaper folds the characters url.QueryEscape passes through that would
// still be ambiguous in a derived key: dots collide with document path
// segments, and a literal underscore blurs the composite-key separator.
var keyEscaper = strings.NewReplacer(".", "%2E", "_", "%5F")

// escapeKey makes a value safe as a storage identifier.
func escapeKey(value string) string {
	return keyEscaper.Replace(url.QueryEscape(value))
}

// DedupKey derives the deterministic identity of one completion. A network
// transaction id is the strong case; without one, subject plus offer (or a
// coarse time bucket when even the offer is missing) is the best available
// approximation. Two real completions by the same subject on the same offer
// without transaction ids collapse into one key; that is a known limitation.
func DedupKey(ev Event, now time.Time, bucket time.Duration) string {
	if ev.TxID != "" {
		return escapeKey(ev.TxID)
	}
	tail := ev.OfferID
	if tail == "" {
		if bucket <= 0 {
			bucket = defaultFallbackBucket
		}
		tail = strconv.FormatInt(now.Truncate(bucket).Unix(), 10)
	}
	return escapeKey(ev.Subject) + "_" + escapeKey(tail)
}
