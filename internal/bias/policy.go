package bias

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// Repeat submission policies.
const (
	PolicyCountAll = "count_all"
	PolicyCap      = "cap"
)

// RepeatPolicy decides whether a submission with the given fingerprint is
// counted.
type RepeatPolicy interface {
	Admit(fingerprint string) bool
}

// NewRepeatPolicy builds the named policy. limit and window only apply to the
// cap policy.
func NewRepeatPolicy(name string, limit int, window time.Duration) (RepeatPolicy, error) {
	switch name {
	case "", PolicyCountAll:
		return countAll{}, nil
	case PolicyCap:
		if limit < 1 {
			return nil, fmt.Errorf("repeat policy cap: limit must be >= 1, got %d", limit)
		}
		if window <= 0 {
			return nil, fmt.Errorf("repeat policy cap: window must be positive")
		}
		return &capPolicy{seen: cache.New(window, window), limit: limit}, nil
	default:
		return nil, fmt.Errorf("unknown repeat policy %q", name)
	}
}

type countAll struct{}

func (countAll) Admit(string) bool { return true }

// capPolicy admits at most limit identical fingerprints per window. The window
// starts at the first sighting.
type capPolicy struct {
	seen  *cache.Cache
	limit int
}

func (p *capPolicy) Admit(fingerprint string) bool {
	if err := p.seen.Add(fingerprint, 1, cache.DefaultExpiration); err == nil {
		return true
	}
	n, err := p.seen.IncrementInt(fingerprint, 1)
	if err != nil {
		// Expired between Add and IncrementInt.
		return p.seen.Add(fingerprint, 1, cache.DefaultExpiration) == nil
	}
	return n <= p.limit
}
