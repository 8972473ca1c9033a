// Package digest provides the set of hash functions a chain can be configured
// to use when producing block digests. The algorithm a chain was mined with is
// part of its state, so the name is carried in every exported chain.
package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/zeebo/blake3"
)

// List of the supported digest algorithms.
const (
	SHA1      = "sha1"
	SHA256    = "sha256"
	Keccak256 = "keccak256"
	Blake3    = "blake3"
)

// Default is the algorithm used when none is configured.
const Default = SHA256

// Func defines a function that takes arbitrary data and returns a fixed length,
// lower case hexadecimal digest. The same input must always produce the
// same output.
type Func func(data []byte) string

// Map of the registered algorithms with their functions.
var (
	mu         sync.RWMutex
	strategies = map[string]Func{
		SHA1:      sha1Digest,
		SHA256:    sha256Digest,
		Keccak256: keccak256Digest,
		Blake3:    blake3Digest,
	}
)

// Retrieve returns the digest function registered under the specified name.
func Retrieve(name string) (Func, error) {
	mu.RLock()
	defer mu.RUnlock()

	fn, exists := strategies[name]
	if !exists {
		return nil, fmt.Errorf("digest algorithm %q does not exist", name)
	}
	return fn, nil
}

// Register adds a digest function under the specified name. Registering a
// name that already exists is an error.
func Register(name string, fn Func) error {
	if name == "" || fn == nil {
		return fmt.Errorf("digest algorithm requires a name and a function")
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := strategies[name]; exists {
		return fmt.Errorf("digest algorithm %q already registered", name)
	}
	strategies[name] = fn

	return nil
}

// Names returns the sorted list of registered algorithms.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// =============================================================================

// sha1Digest matches the digests of ledgers sealed with SHA-1. SHA-1 is not
// collision resistant and should not be used for new ledgers.
func sha1Digest(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func sha256Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func keccak256Digest(data []byte) string {
	return hex.EncodeToString(crypto.Keccak256(data))
}

func blake3Digest(data []byte) string {
	h := blake3.New()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
