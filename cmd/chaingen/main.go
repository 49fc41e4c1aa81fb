package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaspanet/chaingen/domain/chaingen"
	"github.com/kaspanet/chaingen/infrastructure/config"
	"github.com/kaspanet/chaingen/infrastructure/db/fixturestore"
	"github.com/kaspanet/chaingen/infrastructure/logger"
	"github.com/kaspanet/chaingen/util"
	"github.com/kaspanet/chaingen/util/keys"
	"github.com/kaspanet/chaingen/util/panics"
	"github.com/kaspanet/chaingen/util/profiling"
	"github.com/kaspanet/chaingen/version"
	"github.com/pkg/errors"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(version.Describe(appName))
		os.Exit(0)
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", logger.SupportedSubsystems())
		os.Exit(0)
	}

	logger.InitLog(cfg.LogFile(), cfg.ErrLogFile())
	err = logger.ParseAndSetDebugLevels(cfg.DebugLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.BackendLog.Close()
	defer panics.HandlePanic(log, "main", nil)

	// Show version at startup.
	log.Infof("Version %s", version.Version())

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		profiling.Start(cfg.Profile, log)
	}

	interrupt := interruptListener()

	key, err := payoutKey(cfg, os.Stdout)
	if err != nil {
		panic(errors.Wrap(err, "Error deriving the payout key"))
	}

	store, err := fixturestore.Open(cfg.FixtureDB)
	if err != nil {
		panic(errors.Wrapf(err, "Error opening the fixture store at %s", cfg.FixtureDB))
	}
	defer store.Close()

	generator := chaingen.NewGenerator(key, cfg.ResolvedTarget).SetWorkers(cfg.Workers)
	err = resumeChain(generator, store)
	if err != nil {
		panic(errors.Wrap(err, "Error reading the tip of the fixture store"))
	}

	doneChan := make(chan struct{})
	spawn("generateLoop", func() {
		err := generateLoop(cfg, generator, store, interrupt)
		if err != nil {
			panic(errors.Errorf("Error in generate loop: %+v", err))
		}
		close(doneChan)
	})

	select {
	case <-doneChan:
	case <-interrupt:
		<-doneChan
	}
}

// payoutKey derives the key coinbases pay to from the configured mnemonic,
// or from a fresh one. A fresh mnemonic is written to out only, never to
// the logs, so the chain can be extended later.
func payoutKey(cfg *config.Config, out io.Writer) (keys.SigningKey, error) {
	mnemonic := cfg.Mnemonic
	if mnemonic == "" {
		var err error
		mnemonic, err = keys.NewMnemonic()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(out, "Generated payout mnemonic: %s\n", mnemonic)
	}

	key, err := keys.FromMnemonic(mnemonic, 0, cfg.Schnorr)
	if err != nil {
		return nil, err
	}
	address, err := util.NewAddressPubKeyHashFromPublicKey(key.PublicKey(), util.TestNetPubKeyHashAddrID)
	if err != nil {
		return nil, err
	}
	log.Infof("Paying coinbases to %s", address.EncodeAddress())
	return key, nil
}
