// Package database handles the block and transaction model for the ledger,
// including the construction of the digest input and the proof of work.
package database

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// GenesisPrevDigest is the previous digest recorded by the first block.
const GenesisPrevDigest = "0000000000000000"

// DateFormat is the text form of the creation time used in the digest input.
const DateFormat = "2006-01-02 15:04:05"

// =============================================================================

// Block represents a group of transactions batched together. The digest is
// empty until the block has been mined.
type Block struct {
	Index      uint64
	Created    time.Time
	PrevDigest string
	Digest     string
	Nonce      uint64
	Trans      []Tx
}

// NewBlock constructs an empty block created at the specified time. The
// time is kept in UTC at second resolution since that is all the digest
// input records.
func NewBlock(created time.Time) Block {
	return Block{
		Created: created.UTC().Truncate(time.Second),
	}
}

// AddTx appends the transaction to the block, preserving order.
func (b *Block) AddTx(tx Tx) {
	b.Trans = append(b.Trans, tx)
}

// CreatedText returns the creation time as it appears in the digest input.
func (b Block) CreatedText() string {
	return b.Created.UTC().Format(DateFormat)
}

// Key returns the digest input for the block. It's the concatenation of the
// index, creation time, previous digest, nonce and the JSON encoded
// transactions, in that order.
func (b Block) Key() ([]byte, error) {
	head, tail, err := b.keyParts()
	if err != nil {
		return nil, err
	}

	return appendKey(nil, head, b.Nonce, tail), nil
}

// Hash returns the digest of the block's key using the specified algorithm.
func (b Block) Hash(algorithm string) (string, error) {
	hashFn, err := digestFunc(algorithm)
	if err != nil {
		return "", err
	}

	key, err := b.Key()
	if err != nil {
		return "", err
	}

	return hashFn(key), nil
}

// Validate takes a block and validates it against the block that precedes it
// in the chain. A nil previous block means this block must be the genesis
// block. The recorded digest is recomputed from the block's own fields.
func (b Block) Validate(prev *Block, m Miner) error {
	ev := m.evHandler()

	switch {
	case prev == nil:
		ev("database: Validate: blk[%d]: check: block is the genesis block", b.Index)

		if b.Index != 0 {
			return &IntegrityError{Index: b.Index, Err: fmt.Errorf("%w: got %d, exp %d", ErrIndexOutOfOrder, b.Index, 0)}
		}

		if b.PrevDigest != GenesisPrevDigest {
			return &IntegrityError{Index: b.Index, Err: fmt.Errorf("%w: got %s", ErrGenesisPrevDigest, b.PrevDigest)}
		}

	default:
		ev("database: Validate: blk[%d]: check: block number is the next number", b.Index)

		if b.Index != prev.Index+1 {
			return &IntegrityError{Index: b.Index, Err: fmt.Errorf("%w: got %d, exp %d", ErrIndexOutOfOrder, b.Index, prev.Index+1)}
		}

		ev("database: Validate: blk[%d]: check: previous digest does match parent block", b.Index)

		if b.PrevDigest != prev.Digest {
			return &IntegrityError{Index: b.Index, Err: fmt.Errorf("%w: got %s, exp %s", ErrPrevDigestMismatch, b.PrevDigest, prev.Digest)}
		}
	}

	ev("database: Validate: blk[%d]: check: digest does match block contents", b.Index)

	digest, err := b.Hash(m.algorithm())
	if err != nil {
		return err
	}

	if digest != b.Digest {
		return &IntegrityError{Index: b.Index, Err: fmt.Errorf("%w: got %s, exp %s", ErrDigestMismatch, b.Digest, digest)}
	}

	ev("database: Validate: blk[%d]: check: digest has been solved", b.Index)

	if difficulty := m.difficulty(); !IsDigestSolved(difficulty, b.Digest) {
		return &IntegrityError{Index: b.Index, Err: fmt.Errorf("%w: digest %s, difficulty %d", ErrDigestUnsolved, b.Digest, difficulty)}
	}

	return nil
}

// =============================================================================

// keyParts returns the portions of the digest input that sit on either side
// of the nonce. Mining only needs to recompute the nonce between them.
func (b Block) keyParts() (head []byte, tail []byte, err error) {

	// An empty sequence is encoded as [] and not null.
	trans := b.Trans
	if trans == nil {
		trans = []Tx{}
	}

	tail, err = json.Marshal(trans)
	if err != nil {
		return nil, nil, err
	}

	head = strconv.AppendUint(nil, b.Index, 10)
	head = append(head, b.CreatedText()...)
	head = append(head, b.PrevDigest...)

	return head, tail, nil
}

// appendKey writes the full digest input for the nonce into buf.
func appendKey(buf []byte, head []byte, nonce uint64, tail []byte) []byte {
	buf = append(buf, head...)
	buf = strconv.AppendUint(buf, nonce, 10)
	return append(buf, tail...)
}
