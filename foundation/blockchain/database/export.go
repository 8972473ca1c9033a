package database

import (
	"slices"
	"time"
)

// BlockData represents a block in its exported form.
type BlockData struct {
	Index      uint64    `json:"index"`
	Created    time.Time `json:"date_created"`
	PrevDigest string    `json:"previous_hash"`
	Digest     string    `json:"hash"`
	Nonce      uint64    `json:"nonce"`
	Trans      []Tx      `json:"transactions"`
}

// NewBlockData constructs the value to export.
func NewBlockData(block Block) BlockData {
	trans := slices.Clone(block.Trans)
	if trans == nil {
		trans = []Tx{}
	}

	return BlockData{
		Index:      block.Index,
		Created:    block.Created.UTC(),
		PrevDigest: block.PrevDigest,
		Digest:     block.Digest,
		Nonce:      block.Nonce,
		Trans:      trans,
	}
}

// ToBlock converts a BlockData into a Block.
func ToBlock(blockData BlockData) Block {
	var trans []Tx
	if len(blockData.Trans) > 0 {
		trans = slices.Clone(blockData.Trans)
	}

	return Block{
		Index:      blockData.Index,
		Created:    blockData.Created.UTC(),
		PrevDigest: blockData.PrevDigest,
		Digest:     blockData.Digest,
		Nonce:      blockData.Nonce,
		Trans:      trans,
	}
}

// =============================================================================

// ChainData represents a whole chain in its exported form. Contracts are
// code and not data, so they are not part of it.
type ChainData struct {
	Algorithm  string      `json:"algorithm"`
	Difficulty uint        `json:"difficulty"`
	Blocks     []BlockData `json:"blocks"`
}
