package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Fingerprint derives the deduplication key for a fetched item. It is a pure
// function of the item's identity; the contents table carries a unique
// constraint on it. The platform type is part of the input so two platforms
// that happen to reuse an external id and URL cannot collide.
func Fingerprint(platformType, externalID, url string, publishedAt time.Time) string {
	data := fmt.Sprintf("%s|%s|%s|%s", platformType, externalID, url, publishedAt.UTC().Format(time.RFC3339))
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
