package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Deterministic(t *testing.T) {
	publishedAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	a := Fingerprint("github", "evt-1", "https://example.com/1", publishedAt)
	b := Fingerprint("github", "evt-1", "https://example.com/1", publishedAt)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", a)
}

func TestFingerprint_SensitiveToEveryField(t *testing.T) {
	publishedAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	base := Fingerprint("github", "evt-1", "https://example.com/1", publishedAt)

	assert.NotEqual(t, base, Fingerprint("rss", "evt-1", "https://example.com/1", publishedAt))
	assert.NotEqual(t, base, Fingerprint("github", "evt-2", "https://example.com/1", publishedAt))
	assert.NotEqual(t, base, Fingerprint("github", "evt-1", "https://example.com/2", publishedAt))
	assert.NotEqual(t, base, Fingerprint("github", "evt-1", "https://example.com/1", publishedAt.Add(time.Second)))
}

func TestFingerprint_NormalizesTimezone(t *testing.T) {
	utc := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*3600))

	assert.Equal(t,
		Fingerprint("github", "evt-1", "https://example.com/1", utc),
		Fingerprint("github", "evt-1", "https://example.com/1", est),
	)
}
