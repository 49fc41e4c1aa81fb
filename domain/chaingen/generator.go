package chaingen

import (
	"time"

	"github.com/btcsuite/btcutil"
	"github.com/kaspanet/chaingen/domain/consensus/model/externalapi"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/domain/consensus/utils/difficulty"
	"github.com/kaspanet/chaingen/domain/consensus/utils/txscript"
	"github.com/kaspanet/chaingen/util"
	"github.com/kaspanet/chaingen/util/keys"
	"github.com/pkg/errors"
)

// DefaultSpendFee is the fee every spend transaction of a Generator leaves
// to the coinbase of its block.
const DefaultSpendFee = 1000

// SpendableOut is an output a Generator can spend in a later block.
type SpendableOut struct {
	Transaction *externalapi.DomainTransaction
	Index       uint32
	Value       uint64
}

// Outpoint returns the outpoint referring to the output.
func (out SpendableOut) Outpoint() externalapi.DomainOutpoint {
	return *externalapi.NewDomainOutpoint(consensushashing.TransactionID(out.Transaction), out.Index)
}

// MakeSpendableOut returns the output outIndex of transaction txIndex of
// block.
func MakeSpendableOut(block *externalapi.DomainBlock, txIndex, outIndex uint32) SpendableOut {
	transaction := block.Transactions[txIndex]
	return SpendableOut{
		Transaction: transaction,
		Index:       outIndex,
		Value:       transaction.Outputs[outIndex].Value,
	}
}

// Generator builds a chain of named blocks, each paying its coinbase to the
// generator's key and optionally spending outputs of earlier blocks back to
// it. A Generator is not safe for concurrent use.
type Generator struct {
	key     keys.SigningKey
	target  difficulty.Target
	clock   func() time.Time
	workers int
	subsidy uint64
	fee     uint64

	tip          *externalapi.DomainBlock
	tipName      string
	tipHeight    uint32
	blocks       map[externalapi.DomainHash]*externalapi.DomainBlock
	blocksByName map[string]*externalapi.DomainBlock
	blockHeights map[externalapi.DomainHash]uint32

	spendableOuts []SpendableOut
}

// NewGenerator returns a Generator paying to key and mining against target.
// Its first block builds on the all-zero hash.
func NewGenerator(key keys.SigningKey, target difficulty.Target) *Generator {
	return &Generator{
		key:          key,
		target:       target,
		clock:        time.Now,
		workers:      1,
		subsidy:      util.BaseSubsidy,
		fee:          DefaultSpendFee,
		blocks:       make(map[externalapi.DomainHash]*externalapi.DomainBlock),
		blocksByName: make(map[string]*externalapi.DomainBlock),
		blockHeights: make(map[externalapi.DomainHash]uint32),
	}
}

// SetClock sets the time source of the first block's timestamp and of
// refreshed timestamps.
func (g *Generator) SetClock(clock func() time.Time) *Generator {
	g.clock = clock
	return g
}

// SetWorkers sets the number of goroutines searching for nonces.
func (g *Generator) SetWorkers(workers int) *Generator {
	g.workers = workers
	return g
}

// SetSubsidy sets the value created by every coinbase.
func (g *Generator) SetSubsidy(subsidy uint64) *Generator {
	g.subsidy = subsidy
	return g
}

// SetSpendFee sets the fee every spend transaction pays.
func (g *Generator) SetSpendFee(fee uint64) *Generator {
	g.fee = fee
	return g
}

// SetTip makes block, at the given height, the block the next one builds
// on. It is used to continue a chain generated earlier. No outputs become
// spendable; see AddSpendableOuts.
func (g *Generator) SetTip(name string, block *externalapi.DomainBlock, height uint32) {
	g.addBlock(name, block, height)
}

// Tip returns the last generated block, or nil if there is none.
func (g *Generator) Tip() *externalapi.DomainBlock {
	return g.tip
}

// TipName returns the name of the last generated block.
func (g *Generator) TipName() string {
	return g.tipName
}

// TipHeight returns the height of the last generated block. The first block
// has height 0.
func (g *Generator) TipHeight() uint32 {
	return g.tipHeight
}

// BlockByName returns the block generated under name.
func (g *Generator) BlockByName(name string) (*externalapi.DomainBlock, bool) {
	block, ok := g.blocksByName[name]
	return block, ok
}

// BlockByHash returns the generated block with the given hash.
func (g *Generator) BlockByHash(hash *externalapi.DomainHash) (*externalapi.DomainBlock, bool) {
	block, ok := g.blocks[*hash]
	return block, ok
}

// BlockHeight returns the height of the generated block with the given hash.
func (g *Generator) BlockHeight(hash *externalapi.DomainHash) (uint32, bool) {
	height, ok := g.blockHeights[*hash]
	return height, ok
}

// OldestCoinbaseOut removes and returns the oldest coinbase output not yet
// handed out.
func (g *Generator) OldestCoinbaseOut() (SpendableOut, bool) {
	if len(g.spendableOuts) == 0 {
		return SpendableOut{}, false
	}
	out := g.spendableOuts[0]
	g.spendableOuts = g.spendableOuts[1:]
	return out, true
}

// ReturnSpendableOuts puts outputs taken with OldestCoinbaseOut but never
// spent back in front of the outputs not yet handed out, keeping their order.
func (g *Generator) ReturnSpendableOuts(outs ...SpendableOut) {
	spendableOuts := make([]SpendableOut, 0, len(outs)+len(g.spendableOuts))
	spendableOuts = append(spendableOuts, outs...)
	g.spendableOuts = append(spendableOuts, g.spendableOuts...)
}

// AddSpendableOuts queues outs behind the outputs not yet handed out. It is
// used with UnspentCoinbaseOuts to continue a chain generated earlier.
func (g *Generator) AddSpendableOuts(outs ...SpendableOut) {
	g.spendableOuts = append(g.spendableOuts, outs...)
}

// UnspentCoinbaseOuts returns the coinbase outputs of chain that no
// transaction of chain spends, oldest first. chain starts at its first
// block.
func UnspentCoinbaseOuts(chain []*externalapi.DomainBlock) []SpendableOut {
	spent := make(map[externalapi.DomainOutpoint]struct{})
	for _, block := range chain {
		for _, transaction := range block.Transactions[1:] {
			for _, input := range transaction.Inputs {
				spent[input.PreviousOutpoint] = struct{}{}
			}
		}
	}

	var unspent []SpendableOut
	for _, block := range chain {
		out := MakeSpendableOut(block, 0, 0)
		if _, ok := spent[out.Outpoint()]; !ok {
			unspent = append(unspent, out)
		}
	}
	return unspent
}

// NextBlock builds a block named name on the current tip and makes it the
// new tip. The block holds a coinbase followed by one transaction per
// spend, each paying the spent value minus the spend fee back to the
// generator's key.
func (g *Generator) NextBlock(name string, spends ...SpendableOut) (*externalapi.DomainBlock, error) {
	if _, exists := g.blocksByName[name]; exists {
		return nil, errors.Errorf("a block named %s already exists", name)
	}

	height := uint32(0)
	previousBlockHash := &externalapi.DomainHash{}
	if g.tip != nil {
		height = g.tipHeight + 1
		previousBlockHash = consensushashing.BlockHash(g.tip)
	}

	blockBuilder := NewBlockBuilder().
		SetPreviousBlockHash(previousBlockHash).
		SetClock(g.clock).
		SetWorkers(g.workers)
	if g.tip != nil {
		blockBuilder.SetTimestamp(g.tip.Header.Timestamp + 1)
	}

	var fees uint64
	spendTransactions := make([]*TransactionBuilder, 0, len(spends))
	for i, spend := range spends {
		if spend.Value <= g.fee {
			return nil, errors.Errorf("spend %d of %s can't pay the fee of %s",
				i, btcutil.Amount(spend.Value), btcutil.Amount(g.fee))
		}
		fees += g.fee
		spendTransactions = append(spendTransactions, g.spendTransaction(spend))
	}

	coinbasePayload, err := coinbasePayload(height, name)
	if err != nil {
		return nil, err
	}
	blockBuilder.AddTransaction(NewTransactionBuilder().
		AddInput(NewInputBuilder().Coinbase(coinbasePayload)).
		AddOutput(NewOutputBuilder().
			SetValue(g.subsidy + fees).
			Script(PayToAddress, g.key)))
	for _, spendTransaction := range spendTransactions {
		blockBuilder.AddTransaction(spendTransaction)
	}

	block, err := blockBuilder.Build(g.target)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build block %s", name)
	}

	g.addBlock(name, block, height)
	g.spendableOuts = append(g.spendableOuts, MakeSpendableOut(block, 0, 0))
	log.Infof("Generated block %s (%s) at height %d with %d spends, coinbase pays %s",
		name, consensushashing.BlockHash(block), height, len(spends), btcutil.Amount(g.subsidy+fees))
	return block, nil
}

func (g *Generator) spendTransaction(spend SpendableOut) *TransactionBuilder {
	return NewTransactionBuilder().
		AddInput(NewInputBuilder().
			PreviousOutput(spend.Transaction, spend.Index).
			SetSigningKey(g.key)).
		AddOutput(NewOutputBuilder().
			SetValue(spend.Value - g.fee).
			Script(PayToAddress, g.key))
}

func (g *Generator) addBlock(name string, block *externalapi.DomainBlock, height uint32) {
	hash := consensushashing.BlockHash(block)
	g.blocks[*hash] = block
	g.blocksByName[name] = block
	g.blockHeights[*hash] = height
	g.tip = block
	g.tipName = name
	g.tipHeight = height
}

// coinbasePayload commits to the height and name of a block so that every
// coinbase of a chain has a distinct transaction ID.
func coinbasePayload(height uint32, name string) ([]byte, error) {
	return txscript.NewScriptBuilder().
		AddInt64(int64(height)).
		AddData([]byte(name)).
		Script()
}
