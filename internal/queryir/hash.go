package queryir

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainQuery is the domain prefix for content-addressed query identity.
// Version suffix enables future encoding migration.
const DomainQuery = "groupq/query/v1"

// Hash computes the content-addressed identity of a query.
//
// Format: SHA256(domain + 0x00 + canonical_json), hex-encoded. The null
// byte separator prevents domain/data boundary ambiguity. Structurally
// equal queries hash identically regardless of how they were built or
// which file they were loaded from; NFC normalization in canonical form
// makes the hash stable across Unicode forms of the same label.
func Hash(q Query) (string, error) {
	data, err := MarshalCanonical(q)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(DomainQuery))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}
