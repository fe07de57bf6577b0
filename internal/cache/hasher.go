package cache

import (
	"bytes"
	_ "crypto/sha256" // registers SHA-256 for go-digest
	"encoding/json"
	"fmt"

	"github.com/opencontainers/go-digest"
)

// Hasher maps a key to the content address its record is stored under.
//
// Implementations must be deterministic and free of side effects: keys with
// identical canonical encodings always produce the same address.
type Hasher interface {
	Hash(key any) (string, error)
}

// DigestHasher hashes the canonical JSON form of a key with a go-digest
// algorithm and returns the lowercase hex encoding.
type DigestHasher struct {
	Algorithm digest.Algorithm
}

// NewDigestHasher returns a SHA-256 hasher.
func NewDigestHasher() DigestHasher {
	return DigestHasher{Algorithm: digest.SHA256}
}

// Hash implements Hasher.
func (h DigestHasher) Hash(key any) (string, error) {
	canonical, err := CanonicalKey(key)
	if err != nil {
		return "", err
	}
	algorithm := h.Algorithm
	if algorithm == "" {
		algorithm = digest.SHA256
	}
	if !algorithm.Available() {
		return "", fmt.Errorf("digest algorithm %s unavailable", algorithm)
	}
	return algorithm.FromBytes(canonical).Encoded(), nil
}

// HashKey hashes key with the default SHA-256 hasher.
func HashKey(key any) (string, error) {
	return NewDigestHasher().Hash(key)
}

// CanonicalKey returns the canonical JSON bytes of key. encoding/json already
// emits map keys in sorted order, so two equal keys always encode identically.
func CanonicalKey(key any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
