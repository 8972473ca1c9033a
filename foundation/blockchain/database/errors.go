package database

import (
	"errors"
	"fmt"
)

// Set of integrity failures reported by Validate. They are always wrapped
// inside an IntegrityError that names the offending block.
var (
	ErrIndexOutOfOrder    = errors.New("block index is not the next index")
	ErrGenesisPrevDigest  = errors.New("genesis block previous digest is not the sentinel")
	ErrPrevDigestMismatch = errors.New("previous digest does not match the prior block")
	ErrDigestMismatch     = errors.New("digest does not match the block contents")
	ErrDigestUnsolved     = errors.New("digest does not satisfy the difficulty")
)

// =============================================================================

// IntegrityError is returned when a block breaks the linkage or the proof of
// work rules of the chain.
type IntegrityError struct {
	Index uint64
	Err   error
}

// Error implements the error interface.
func (ie *IntegrityError) Error() string {
	return fmt.Sprintf("chain integrity: blk[%d]: %s", ie.Index, ie.Err)
}

// Unwrap provides access to the specific integrity failure.
func (ie *IntegrityError) Unwrap() error {
	return ie.Err
}

// IsIntegrityError checks if an error of type IntegrityError exists.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// =============================================================================

// MiningExhaustedError is returned when the nonce search reaches the configured
// maximum number of attempts without solving the block.
type MiningExhaustedError struct {
	Index    uint64
	Attempts uint64
}

// Error implements the error interface.
func (me *MiningExhaustedError) Error() string {
	return fmt.Sprintf("mining blk[%d]: exhausted after %d attempts", me.Index, me.Attempts)
}

// IsMiningExhausted checks if an error of type MiningExhaustedError exists.
func IsMiningExhausted(err error) bool {
	var me *MiningExhaustedError
	return errors.As(err, &me)
}
