package service

import (
	"crypto/rand"
	"fmt"
	"time"
)

// newID returns a prefixed random identifier, e.g. CST-3FA2B1C49D0E.
func newID(prefix string) string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("%s-%012X", prefix, time.Now().UnixNano()&0xFFFFFFFFFFFF)
	}
	return fmt.Sprintf("%s-%012X", prefix, b)
}
