package pipeline

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Fingerprint computes a deterministic, order-sensitive hash over a batch's
// text fields. Each text is length-prefixed so boundaries contribute to the
// digest; timing fields are deliberately excluded.
func Fingerprint(texts []string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, text := range texts {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(text)))
		h.Write(lenBuf[:])
		h.Write([]byte(text))
	}
	return hex.EncodeToString(h.Sum(nil))
}
