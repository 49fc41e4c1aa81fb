package chaingen

import (
	"time"

	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/ruleerrors"
	"github.com/kaspanet/chaingen/domain/consensus/utils/difficulty"
	"github.com/kaspanet/chaingen/domain/consensus/utils/merkle"
	"github.com/kaspanet/chaingen/domain/consensus/utils/pow"
	"github.com/kaspanet/chaingen/domain/consensus/utils/serialization"
	"github.com/kaspanet/chaingen/infrastructure/logger"
	"github.com/pkg/errors"
)

// DefaultBlockVersion is the version of blocks that don't set one.
const DefaultBlockVersion = 1

type transactionSource interface {
	Build() (*externalapi.DomainTransaction, error)
}

type builtTransaction struct {
	transaction *externalapi.DomainTransaction
}

func (bt builtTransaction) Build() (*externalapi.DomainTransaction, error) {
	return bt.transaction.Clone(), nil
}

// BlockBuilder declares a block and mines it when built.
type BlockBuilder struct {
	version           uint32
	previousBlockHash *externalapi.DomainHash
	timestamp         uint32
	timestampSet      bool
	nonce             uint32

	clock        func() time.Time
	workers      int
	rateObserver pow.RateObserver

	transactions []transactionSource
}

// NewBlockBuilder returns a BlockBuilder with no transactions, timestamped
// by the wall clock and mining on the calling goroutine.
func NewBlockBuilder() *BlockBuilder {
	return &BlockBuilder{
		version: DefaultBlockVersion,
		clock:   time.Now,
		workers: 1,
	}
}

// SetVersion sets the block version.
func (bb *BlockBuilder) SetVersion(version uint32) *BlockBuilder {
	bb.version = version
	return bb
}

// SetPreviousBlockHash sets the hash of the block this block builds on. The
// all-zero hash is valid and starts a new chain.
func (bb *BlockBuilder) SetPreviousBlockHash(hash *externalapi.DomainHash) *BlockBuilder {
	hashCopy := *hash
	bb.previousBlockHash = &hashCopy
	return bb
}

// SetTimestamp sets the timestamp the nonce search starts from, in seconds
// since the unix epoch. Without it the search starts from the clock's time.
func (bb *BlockBuilder) SetTimestamp(timestamp uint32) *BlockBuilder {
	bb.timestamp = timestamp
	bb.timestampSet = true
	return bb
}

// SetNonce sets the nonce the search starts from.
func (bb *BlockBuilder) SetNonce(nonce uint32) *BlockBuilder {
	bb.nonce = nonce
	return bb
}

// SetClock sets the time source of the default and refreshed timestamps.
func (bb *BlockBuilder) SetClock(clock func() time.Time) *BlockBuilder {
	bb.clock = clock
	return bb
}

// SetWorkers sets the number of goroutines searching for a nonce.
func (bb *BlockBuilder) SetWorkers(workers int) *BlockBuilder {
	bb.workers = workers
	return bb
}

// SetRateObserver sets a function receiving the hash rate after every
// exhausted nonce window.
func (bb *BlockBuilder) SetRateObserver(observer pow.RateObserver) *BlockBuilder {
	bb.rateObserver = observer
	return bb
}

// AddTransaction appends a transaction to be built with the block. The
// first transaction is expected to be the coinbase.
func (bb *BlockBuilder) AddTransaction(transaction *TransactionBuilder) *BlockBuilder {
	bb.transactions = append(bb.transactions, transaction)
	return bb
}

// AddBuiltTransaction appends an already built transaction. The block holds
// a copy of it.
func (bb *BlockBuilder) AddBuiltTransaction(transaction *externalapi.DomainTransaction) *BlockBuilder {
	bb.transactions = append(bb.transactions, builtTransaction{transaction: transaction.Clone()})
	return bb
}

// Build builds the transactions in order, commits to them in the merkle root
// and searches for a nonce under which the header hashes below target, as
// rounded down by its compact encoding in the header bits. The returned
// block is the one decoded back from its own serialization.
func (bb *BlockBuilder) Build(target difficulty.Target) (*externalapi.DomainBlock, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "BlockBuilder.Build")
	defer onEnd()

	if len(bb.transactions) == 0 {
		return nil, errors.WithStack(ruleerrors.ErrEmptyBlock)
	}
	if bb.previousBlockHash == nil {
		return nil, errors.WithStack(ruleerrors.ErrMissingPreviousBlockHash)
	}
	if target.IsZero() {
		return nil, errors.Wrap(ruleerrors.ErrInvalidTarget, "target was never resolved")
	}
	// The header only records the compact bits, so the hash must also meet
	// the target they decode to.
	target, err := difficulty.TargetFromCompact(target.Bits())
	if err != nil {
		return nil, err
	}

	transactions := make([]*externalapi.DomainTransaction, 0, len(bb.transactions))
	for i, source := range bb.transactions {
		transaction, err := source.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "transaction %d", i)
		}
		transactions = append(transactions, transaction)
	}

	header, err := bb.buildHeader(transactions, target)
	if err != nil {
		return nil, err
	}

	searcher := pow.NewSearcher(header, target).
		SetClock(bb.clock).
		SetWorkers(bb.workers).
		SetRateObserver(bb.rateObserver)
	hash := searcher.Search()

	decoded, err := blockRoundTrip(&externalapi.DomainBlock{
		Header:       header,
		Transactions: transactions,
	})
	if err != nil {
		return nil, err
	}
	log.Infof("Built block %s with %d transactions after %d hash attempts",
		hash, len(decoded.Transactions), searcher.Attempts())
	return decoded, nil
}

func (bb *BlockBuilder) buildHeader(transactions []*externalapi.DomainTransaction,
	target difficulty.Target) (*externalapi.DomainBlockHeader, error) {

	merkleRoot, err := merkle.CalculateHashMerkleRoot(transactions)
	if err != nil {
		return nil, err
	}

	return &externalapi.DomainBlockHeader{
		Version:           bb.version,
		PreviousBlockHash: *bb.previousBlockHash,
		MerkleRoot:        *merkleRoot,
		Timestamp:         bb.newBlockTimestamp(),
		Bits:              target.Bits(),
		Nonce:             bb.nonce,
	}, nil
}

func (bb *BlockBuilder) newBlockTimestamp() uint32 {
	if bb.timestampSet {
		return bb.timestamp
	}
	return uint32(bb.clock().Unix())
}

func blockRoundTrip(block *externalapi.DomainBlock) (*externalapi.DomainBlock, error) {
	serialized, err := serialization.SerializeBlock(block)
	if err != nil {
		return nil, err
	}
	decoded, err := serialization.DeserializeBlock(serialized)
	if err != nil {
		return nil, errors.Wrapf(ruleerrors.ErrRoundTrip, "block doesn't decode: %s", err)
	}
	if !decoded.Equal(block) {
		return nil, errors.Wrapf(ruleerrors.ErrRoundTrip, "block %x decodes differently", serialized)
	}
	return decoded, nil
}
