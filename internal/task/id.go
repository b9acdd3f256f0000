package task

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	minIDLength  = 3
	maxIDLength  = 8
	nonceSize    = 16 // 128 bits of entropy
	hexChunkSize = 4  // 16 bits per base36 chunk
	maxAttempts  = 64
)

// GenerateID creates a unique task ID using hash-based generation with adaptive length.
// It starts with minIDLength characters and grows up to maxIDLength to avoid collisions.
// When every prefix collides a fresh nonce is drawn, so the result never satisfies existsFn.
func GenerateID(title string, createdAt time.Time, existsFn func(string) bool) string {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		base36 := hashID(title, createdAt)
		for length := minIDLength; length <= maxIDLength && length <= len(base36); length++ {
			candidate := base36[:length]
			if !existsFn(candidate) {
				return candidate
			}
		}
	}

	// Only reachable with a pathological existsFn; widen until unique.
	for {
		candidate := hashID(title, createdAt)
		if !existsFn(candidate) {
			return candidate
		}
	}
}

func hashID(title string, createdAt time.Time) string {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}

	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte(createdAt.Format(time.RFC3339Nano)))
	h.Write(nonce)

	return hexToBase36(hex.EncodeToString(h.Sum(nil)))
}

// hexToBase36 converts a hex string to base36.
func hexToBase36(hexStr string) string {
	var result strings.Builder
	for i := 0; i < len(hexStr); i += hexChunkSize {
		end := min(i+hexChunkSize, len(hexStr))
		val, _ := strconv.ParseUint(hexStr[i:end], 16, 64)
		result.WriteString(strconv.FormatUint(val, 36))
	}
	return result.String()
}
