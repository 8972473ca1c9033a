package database

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"golang.org/x/sync/errgroup"
)

// DefaultDifficulty is the number of leading zeros a digest needs by
// default, a digest prefix of "00".
const DefaultDifficulty = 2

// progressInterval is how often the nonce search reports it is still working.
const progressInterval = 1_000_000

// =============================================================================

// Miner holds the settings for the proof of work search.
type Miner struct {
	Difficulty  uint                        // Number of leading 0's the hex digest needs. Zero means the default.
	MaxAttempts uint64                      // Upper bound on nonces tried. Zero means no bound.
	Workers     int                         // Number of G's searching nonces. Less than 2 is sequential.
	Algorithm   string                      // Name of the digest algorithm, default sha256.
	EvHandler   func(v string, args ...any) // Receives mining events, can be nil.
}

// Mine performs the work of finding a nonce that produces a digest solving
// the difficulty for the block. The search starts at nonce 0. The nonce is
// left on the block and the digest is returned for the caller to assign.
// Pointer semantics are being used since a nonce is being discovered.
func (b *Block) Mine(ctx context.Context, m Miner) (string, error) {
	ev := m.evHandler()

	ev("database: Mine: MINING: started: blk[%d]", b.Index)
	defer ev("database: Mine: MINING: completed: blk[%d]", b.Index)

	// Log the transactions that are a part of this potential block.
	for _, tx := range b.Trans {
		ev("database: Mine: MINING: tx[%s]", tx)
	}

	hashFn, err := digestFunc(m.algorithm())
	if err != nil {
		return "", err
	}

	head, tail, err := b.keyParts()
	if err != nil {
		return "", err
	}

	if m.Workers > 1 {
		return b.mineParallel(ctx, m, hashFn, head, tail)
	}

	buf := make([]byte, 0, len(head)+20+len(tail))
	difficulty := m.difficulty()

	b.Nonce = 0
	var attempts uint64
	for {
		if m.MaxAttempts > 0 && attempts == m.MaxAttempts {
			ev("database: Mine: MINING: EXHAUSTED: attempts[%d]", attempts)
			return "", &MiningExhaustedError{Index: b.Index, Attempts: attempts}
		}

		attempts++
		if attempts%progressInterval == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Did we timeout trying to solve the problem.
		if ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED")
			return "", ctx.Err()
		}

		// Hash the block and check if we have solved the puzzle.
		hash := hashFn(appendKey(buf[:0], head, b.Nonce, tail))
		if !IsDigestSolved(difficulty, hash) {
			b.Nonce++
			continue
		}

		ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevDigest, hash, b.Nonce)
		ev("database: Mine: MINING: attempts[%d]", attempts)

		return hash, nil
	}
}

// mineParallel splits the nonce space across the workers so worker w tries
// nonces w, w+n, w+2n and so on. A worker stops once its next nonce is past
// the lowest solution found so far, which means the lowest solving nonce
// always wins and the result matches a sequential search.
func (b *Block) mineParallel(ctx context.Context, m Miner, hashFn digest.Func, head []byte, tail []byte) (string, error) {
	ev := m.evHandler()
	ev("database: Mine: MINING: parallel: workers[%d]", m.Workers)

	const unsolved = math.MaxUint64

	var best atomic.Uint64
	best.Store(unsolved)

	workers := uint64(m.Workers)
	difficulty := m.difficulty()
	g, ctx := errgroup.WithContext(ctx)

	for w := range workers {
		g.Go(func() error {
			buf := make([]byte, 0, len(head)+20+len(tail))

			for nonce := w; nonce < best.Load(); nonce += workers {
				if m.MaxAttempts > 0 && nonce >= m.MaxAttempts {
					return nil
				}

				if ctx.Err() != nil {
					return ctx.Err()
				}

				hash := hashFn(appendKey(buf[:0], head, nonce, tail))
				if !IsDigestSolved(difficulty, hash) {
					continue
				}

				// Record the nonce if it's lower than any other solution.
				for {
					current := best.Load()
					if nonce >= current || best.CompareAndSwap(current, nonce) {
						break
					}
				}
				return nil
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		ev("database: Mine: MINING: CANCELLED")
		return "", err
	}

	nonce := best.Load()
	if nonce == unsolved {
		ev("database: Mine: MINING: EXHAUSTED: attempts[%d]", m.MaxAttempts)
		return "", &MiningExhaustedError{Index: b.Index, Attempts: m.MaxAttempts}
	}

	b.Nonce = nonce
	hash := hashFn(appendKey(nil, head, nonce, tail))

	ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevDigest, hash, nonce)

	return hash, nil
}

// IsDigestSolved checks the digest to make sure it complies with the POW
// rules. We need to match a difficulty number of leading 0's.
func IsDigestSolved(difficulty uint, digest string) bool {
	if uint(len(digest)) < difficulty {
		return false
	}

	for i := range difficulty {
		if digest[i] != '0' {
			return false
		}
	}

	return true
}

// =============================================================================

// evHandler returns a handler that is safe to call.
func (m Miner) evHandler() func(v string, args ...any) {
	if m.EvHandler == nil {
		return func(string, ...any) {}
	}
	return m.EvHandler
}

// difficulty returns the configured difficulty or the default.
func (m Miner) difficulty() uint {
	if m.Difficulty == 0 {
		return DefaultDifficulty
	}
	return m.Difficulty
}

// algorithm returns the configured digest algorithm or the default.
func (m Miner) algorithm() string {
	if m.Algorithm == "" {
		return digest.Default
	}
	return m.Algorithm
}

// digestFunc resolves the algorithm name, falling back to the default.
func digestFunc(algorithm string) (digest.Func, error) {
	if algorithm == "" {
		algorithm = digest.Default
	}
	return digest.Retrieve(algorithm)
}
