package main

import (
	"io"
	"reflect"
	"testing"

	"github.com/kaspanet/chaingen/domain/chaingen"
	"github.com/kaspanet/chaingen/domain/consensus/utils/consensushashing"
	"github.com/kaspanet/chaingen/infrastructure/config"
	"github.com/kaspanet/chaingen/infrastructure/db/fixturestore"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func TestGenerateLoop(t *testing.T) {
	cfg, err := config.LoadConfig([]string{
		"--appdir", t.TempDir(),
		"--numblocks", "3",
		"--spend-per-block", "1",
		"--mnemonic", testMnemonic,
	})
	if err != nil {
		t.Fatalf("LoadConfig: %+v", err)
	}
	key, err := payoutKey(cfg, io.Discard)
	if err != nil {
		t.Fatalf("payoutKey: %+v", err)
	}
	store, err := fixturestore.Open(cfg.FixtureDB)
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}
	defer store.Close()

	generator := chaingen.NewGenerator(key, cfg.ResolvedTarget)
	err = resumeChain(generator, store)
	if err != nil {
		t.Fatalf("resumeChain: %+v", err)
	}
	err = generateLoop(cfg, generator, store, make(chan struct{}))
	if err != nil {
		t.Fatalf("generateLoop: %+v", err)
	}

	names, err := store.Names()
	if err != nil {
		t.Fatalf("Names: %+v", err)
	}
	if !reflect.DeepEqual(names, []string{"b0", "b1", "b2"}) {
		t.Fatalf("unexpected stored blocks %v", names)
	}
	for _, name := range names[1:] {
		block, err := store.BlockByName(name)
		if err != nil {
			t.Fatalf("BlockByName(%s): %+v", name, err)
		}
		if len(block.Transactions) != 2 {
			t.Errorf("block %s has %d transactions, want a coinbase and a spend", name, len(block.Transactions))
		}
	}

	// A second run extends the stored chain.
	cfg.NumberOfBlocks = 1
	resumed := chaingen.NewGenerator(key, cfg.ResolvedTarget)
	err = resumeChain(resumed, store)
	if err != nil {
		t.Fatalf("resumeChain: %+v", err)
	}
	err = generateLoop(cfg, resumed, store, make(chan struct{}))
	if err != nil {
		t.Fatalf("generateLoop: %+v", err)
	}

	tip, err := store.Tip()
	if err != nil {
		t.Fatalf("Tip: %+v", err)
	}
	b2, err := store.BlockByName("b2")
	if err != nil {
		t.Fatalf("BlockByName: %+v", err)
	}
	if tip.Name != "b3" || tip.Height != 3 {
		t.Errorf("unexpected tip %s at height %d", tip.Name, tip.Height)
	}
	if tip.Block.Header.PreviousBlockHash != *consensushashing.BlockHash(b2) {
		t.Errorf("b3 doesn't build on b2")
	}

	// b1 and b2 spent the coinbases of b0 and b1, which leaves b2's
	// coinbase for the resumed run to spend.
	if len(tip.Block.Transactions) != 2 {
		t.Fatalf("b3 has %d transactions, want a coinbase and a spend", len(tip.Block.Transactions))
	}
	spentOutpoint := tip.Block.Transactions[1].Inputs[0].PreviousOutpoint
	if spentOutpoint.TransactionID != *consensushashing.TransactionID(b2.Transactions[0]) || spentOutpoint.Index != 0 {
		t.Errorf("b3 spends %s instead of the coinbase of b2", spentOutpoint)
	}
}

func TestGenerateLoopInterrupted(t *testing.T) {
	cfg, err := config.LoadConfig([]string{"--appdir", t.TempDir(), "--mnemonic", testMnemonic})
	if err != nil {
		t.Fatalf("LoadConfig: %+v", err)
	}
	key, err := payoutKey(cfg, io.Discard)
	if err != nil {
		t.Fatalf("payoutKey: %+v", err)
	}
	store, err := fixturestore.Open(cfg.FixtureDB)
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}
	defer store.Close()

	interrupt := make(chan struct{})
	close(interrupt)
	err = generateLoop(cfg, chaingen.NewGenerator(key, cfg.ResolvedTarget), store, interrupt)
	if err != nil {
		t.Fatalf("generateLoop: %+v", err)
	}
	_, err = store.Tip()
	if !fixturestore.IsNotFoundError(err) {
		t.Errorf("an interrupted loop stored blocks")
	}
}
