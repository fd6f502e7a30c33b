package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/mrz1836/gatekeeper/internal/domain"
)

// Fingerprint computes a deterministic hash of the execution context
// parts that affect a hook's outcome: event type, file path, file
// content hash, and the merged hook config. Wall-clock time never feeds
// the fingerprint.
//
// Config maps are serialized with encoding/json, which writes map keys
// in sorted order, so two contexts with equal config always fingerprint
// identically regardless of insertion order.
func Fingerprint(ec domain.ExecutionContext) string {
	h := sha256.New()

	writeField(h.Write, ec.Event.Type)
	writeField(h.Write, ec.Event.Path)
	writeField(h.Write, ec.Event.ContentHash)
	writeField(h.Write, ec.Event.ProjectPath)

	if len(ec.Config) > 0 {
		// json.Marshal of a map sorts keys; errors only occur for
		// unsupported value types, which a merged config never holds.
		if data, err := json.Marshal(ec.Config); err == nil {
			_, _ = h.Write(data)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes a length-prefixed field so adjacent fields can never
// collide ("ab"+"c" vs "a"+"bc").
func writeField(w func([]byte) (int, error), s string) {
	_, _ = w([]byte{byte(len(s) >> 8), byte(len(s))})
	_, _ = w([]byte(s))
}
