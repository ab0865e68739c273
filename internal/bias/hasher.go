// Package bias holds the anonymization, counting policy, disparity analysis
// and chart rendering used by the bias aggregation service.
package bias

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"

	"claimequity/internal/domain"
)

// bucketHexLen is the number of hex characters kept from each bucket digest.
const bucketHexLen = 16

const (
	zipDomain         = "zip"
	demographicDomain = "demographic"
	fingerprintDomain = "fingerprint"
)

// Hasher maps raw zip and demographic values to keyed one-way bucket ids.
// Without the salt a bucket id cannot be recomputed from a guessed value.
type Hasher struct {
	key []byte
}

// NewHasher creates a Hasher keyed with salt. Salts longer than the blake2b
// key limit are compressed first.
func NewHasher(salt string) (*Hasher, error) {
	if salt == "" {
		return nil, fmt.Errorf("bias hasher: salt must not be empty")
	}
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	return &Hasher{key: key}, nil
}

// Key returns the bucket key for a raw zip and demographic pair.
func (h *Hasher) Key(zip, demographic string) domain.BucketKey {
	return domain.BucketKey{
		ZipBucket:         h.digest(zipDomain, NormalizeZip(zip))[:bucketHexLen],
		DemographicBucket: h.digest(demographicDomain, NormalizeDemographic(demographic))[:bucketHexLen],
	}
}

// Fingerprint identifies a submission for repeat detection. It is never stored
// alongside the aggregates.
func (h *Hasher) Fingerprint(parts ...string) string {
	return h.digest(fingerprintDomain, strings.Join(parts, "\x1f"))
}

func (h *Hasher) digest(domainPrefix, value string) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// Key length is bounded in NewHasher.
		panic(err)
	}
	mac.Write([]byte(domainPrefix))
	mac.Write([]byte{0})
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

// NormalizeZip trims whitespace and drops a ZIP+4 suffix.
func NormalizeZip(zip string) string {
	zip = strings.TrimSpace(zip)
	if i := strings.IndexByte(zip, '-'); i > 0 {
		zip = zip[:i]
	}
	return strings.ToUpper(zip)
}

// NormalizeDemographic lowercases and collapses internal whitespace.
func NormalizeDemographic(demo string) string {
	return strings.Join(strings.Fields(strings.ToLower(demo)), " ")
}
