// pkg/memcache/verification_codes.go
package mem

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"cogniseguros/pkg/utils"
)

// VerifyOutcome is the result of checking a submitted code.
type VerifyOutcome int

const (
	NoPendingCode VerifyOutcome = iota
	Expired
	Mismatch
	Valid
)

func (o VerifyOutcome) String() string {
	switch o {
	case Expired:
		return "expired"
	case Mismatch:
		return "mismatch"
	case Valid:
		return "valid"
	default:
		return "no_pending_code"
	}
}

// Err converts a non-valid outcome into the matching service error.
func (o VerifyOutcome) Err() error {
	switch o {
	case Valid:
		return nil
	case Expired:
		return utils.ErrCodeExpired
	case Mismatch:
		return utils.ErrCodeMismatch
	default:
		return utils.ErrNoPendingCode
	}
}

type VerificationCodeStore interface {
	// Issue stores a fresh code for email, replacing any pending one.
	Issue(email string) (string, error)

	// Verify checks code against the pending entry. Expired and Valid
	// remove the entry; Mismatch keeps it so the user can retry.
	Verify(email, code string) VerifyOutcome
}

type entry struct {
	code      string
	expiresAt time.Time
}

// VerificationCodes keeps pending codes in process memory only. Entries are
// lost on restart.
type VerificationCodes struct {
	mu   sync.Mutex
	data map[string]entry

	ttl      time.Duration
	now      func() time.Time
	generate func() (string, error)
}

type Option func(*VerificationCodes)

func WithClock(now func() time.Time) Option {
	return func(s *VerificationCodes) { s.now = now }
}

func WithGenerator(gen func() (string, error)) Option {
	return func(s *VerificationCodes) { s.generate = gen }
}

func NewVerificationCodes(ttl time.Duration, opts ...Option) *VerificationCodes {
	s := &VerificationCodes{
		data:     make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		generate: utils.GenerateOtpCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *VerificationCodes) Issue(email string) (string, error) {
	code, err := s.generate()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[NormalizeEmail(email)] = entry{
		code:      code,
		expiresAt: s.now().Add(s.ttl),
	}
	return code, nil
}

func (s *VerificationCodes) Verify(email, code string) VerifyOutcome {
	key := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return NoPendingCode
	}
	if s.now().After(e.expiresAt) {
		delete(s.data, key)
		return Expired
	}
	if subtle.ConstantTimeCompare([]byte(e.code), []byte(strings.TrimSpace(code))) != 1 {
		return Mismatch
	}
	delete(s.data, key) // single-use
	return Valid
}

// Sweep drops expired entries and returns how many were removed.
func (s *VerificationCodes) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

func (s *VerificationCodes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// StartJanitor sweeps every interval until ctx is done. The returned channel
// is closed once the goroutine has exited.
func (s *VerificationCodes) StartJanitor(ctx context.Context, every time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
	return done
}
