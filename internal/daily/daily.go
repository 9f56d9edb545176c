// internal/daily/daily.go
//
// Deterministic daily word.
// Every process with the same salt and catalog picks the same answer for a
// given UTC date, so daily runs from different strategies are comparable.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordlebot/internal/words"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Word is the answer for one day.
type Word struct {
	Date  string `json:"date"`
	Index int    `json:"index"`
	Word  string `json:"-"`
}

// Pick returns the day's word from catalog, which must be in catalog
// order. ok is false for an empty catalog.
func Pick(date time.Time, salt string, catalog []words.Entry) (Word, bool) {
	d := Word{Date: DateKey(date)}
	if len(catalog) == 0 {
		return d, false
	}
	d.Index = WordIndex(date, salt, len(catalog))
	d.Word = catalog[d.Index].Word
	return d, true
}
