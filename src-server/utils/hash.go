package utils

import (
	"crypto/sha256"
	"fmt"
)

// HashBytes fingerprints a downloaded feed payload so unchanged feeds
// can be skipped without touching the database.
func HashBytes(data []byte) string {
	h := sha256.New()
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}
