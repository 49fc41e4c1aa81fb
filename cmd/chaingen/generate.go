package main

import (
	"fmt"

	"github.com/kaspanet/chaingen/domain/chaingen"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/infrastructure/config"
	"github.com/kaspanet/chaingen/infrastructure/db/fixturestore"
	"github.com/pkg/errors"
)

// resumeChain makes the tip of store, if there is one, the tip of
// generator, and queues the stored coinbase outputs still unspent.
func resumeChain(generator *chaingen.Generator, store *fixturestore.Store) error {
	tip, err := store.Tip()
	if fixturestore.IsNotFoundError(err) {
		log.Infof("Fixture store is empty. Starting a new chain")
		return nil
	}
	if err != nil {
		return err
	}

	chain, err := store.Chain()
	if err != nil {
		return err
	}
	unspent := chaingen.UnspentCoinbaseOuts(chain)

	generator.SetTip(tip.Name, tip.Block, tip.Height)
	generator.AddSpendableOuts(unspent...)
	log.Infof("Resuming chain at %s (%s), height %d, with %d unspent coinbase outputs",
		tip.Name, consensushashing.BlockHash(tip.Block), tip.Height, len(unspent))
	return nil
}

func blockName(generator *chaingen.Generator) string {
	if generator.Tip() == nil {
		return "b0"
	}
	return fmt.Sprintf("b%d", generator.TipHeight()+1)
}

// generateLoop generates cfg.NumberOfBlocks blocks, archiving each one in
// store. It returns early without an error once interrupt is closed.
func generateLoop(cfg *config.Config, generator *chaingen.Generator, store *fixturestore.Store,
	interrupt <-chan struct{}) error {

	for i := uint64(0); i < cfg.NumberOfBlocks; i++ {
		select {
		case <-interrupt:
			log.Infof("Interrupted after %d blocks", i)
			return nil
		default:
		}

		spends := make([]chaingen.SpendableOut, 0, cfg.SpendPerBlock)
		for len(spends) < cfg.SpendPerBlock {
			spend, ok := generator.OldestCoinbaseOut()
			if !ok {
				break
			}
			spends = append(spends, spend)
		}

		name := blockName(generator)
		block, err := generator.NextBlock(name, spends...)
		if err != nil {
			generator.ReturnSpendableOuts(spends...)
			return err
		}
		err = store.PutBlock(name, block, generator.TipHeight())
		if err != nil {
			return errors.Wrapf(err, "failed to store block %s", name)
		}
	}

	log.Infof("Generated %d blocks. Tip is %s at height %d",
		cfg.NumberOfBlocks, generator.TipName(), generator.TipHeight())
	return nil
}
