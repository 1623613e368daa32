// Package secmem holds short-lived secrets (API keys, shared secrets) with
// best-effort memory zeroing and redacted formatting, so a stray log line
// or struct dump never leaks one into a terminal or log aggregator.
package secmem

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pixelgrab/pixelgrab/internal/logging"
)

var log = logging.L("secmem")

const redacted = "[REDACTED]"

var errUnmarshalNotSupported = errors.New("secmem: SecureString cannot be unmarshaled directly")

// SecureString holds sensitive data with best-effort memory zeroing.
// Go's GC may copy the backing array, so this is defense-in-depth, not a
// guarantee. Call Zero() in shutdown paths to overwrite the token in place.
type SecureString struct {
	mu         sync.Mutex
	data       []byte
	warnedOnce atomic.Bool
}

// NewSecureString creates a SecureString from the given string.
func NewSecureString(s string) *SecureString {
	b := make([]byte, len(s))
	copy(b, s)
	return &SecureString{data: b}
}

// Reveal returns the plaintext value, or "" if the string has been zeroed
// or the receiver is nil.
func (s *SecureString) Reveal() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		if s.warnedOnce.CompareAndSwap(false, true) {
			log.Warn("Reveal() called on a zeroed secret")
		}
		return ""
	}
	return string(s.data)
}

// IsZeroed reports whether Zero has already been called.
func (s *SecureString) IsZeroed() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data == nil
}

// Zero overwrites the backing byte slice with zeros and drops the reference.
func (s *SecureString) Zero() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
}

// String returns a redacted representation so fmt's default verb never
// prints the secret.
func (s *SecureString) String() string { return redacted }

// GoString redacts %#v too.
func (s *SecureString) GoString() string { return redacted }

// MarshalJSON redacts the secret in any encoding/json output.
func (s *SecureString) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// MarshalText redacts the secret for encoding.TextMarshaler consumers.
func (s *SecureString) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// UnmarshalJSON always fails: secrets must be set via NewSecureString, not
// decoded from an untrusted document into a live SecureString value.
func (s *SecureString) UnmarshalJSON([]byte) error {
	return errUnmarshalNotSupported
}
