// Package config parses and validates the command line configuration of
// chaingen.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/chaingen/domain/consensus/utils/difficulty"
	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"
)

const (
	defaultLogDirname     = "logs"
	defaultFixtureDirname = "fixtures"
	defaultLogLevel       = "info"
	defaultNumberOfBlocks = 10
	defaultWorkers        = 1

	// DefaultTarget is a target met by one header hash in 256 on average.
	DefaultTarget = "00ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"

	// LogFilename is the name of the log file inside the log directory.
	LogFilename = "chaingen.log"

	// ErrLogFilename is the name of the error log file inside the log
	// directory.
	ErrLogFilename = "chaingen_err.log"
)

// DefaultAppDir is the default home directory of chaingen.
var DefaultAppDir = btcutil.AppDataDir("chaingen", false)

// Flags defines the command line options of chaingen.
type Flags struct {
	ShowVersion    bool   `short:"V" long:"version" description:"Display version information and exit"`
	AppDir         string `short:"b" long:"appdir" description:"Directory to store data"`
	LogDir         string `long:"logdir" description:"Directory to log output"`
	DebugLevel     string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	NumberOfBlocks uint64 `short:"n" long:"numblocks" description:"Number of blocks to generate"`
	Target         string `long:"target" description:"Proof of work target as 32 bytes of big-endian hex"`
	Workers        int    `long:"workers" description:"Number of goroutines searching for nonces"`
	Mnemonic       string `long:"mnemonic" description:"BIP39 mnemonic the payout key is derived from. A fresh key is generated if omitted"`
	Schnorr        bool   `long:"schnorr" description:"Sign with Schnorr instead of ECDSA"`
	FixtureDB      string `long:"fixturedb" description:"Directory of the fixture database. Defaults to <appdir>/fixtures"`
	SpendPerBlock  int    `long:"spend-per-block" description:"Number of earlier coinbase outputs every block spends"`
	Profile        string `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65536"`
}

// Config is the validated configuration of chaingen.
type Config struct {
	*Flags

	// ResolvedTarget is the target parsed from Flags.Target.
	ResolvedTarget difficulty.Target
}

func defaultFlags() *Flags {
	return &Flags{
		DebugLevel:     defaultLogLevel,
		NumberOfBlocks: defaultNumberOfBlocks,
		Target:         DefaultTarget,
		Workers:        defaultWorkers,
	}
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(DefaultAppDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// LoadConfig parses args into a Config and validates it. When the version
// flag is set the remaining options are not validated.
func LoadConfig(args []string) (*Config, error) {
	cfgFlags := defaultFlags()
	parser := flags.NewParser(cfgFlags, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Flags: cfgFlags}
	if cfg.ShowVersion {
		return cfg, nil
	}

	if cfg.AppDir == "" {
		cfg.AppDir = DefaultAppDir
	}
	cfg.AppDir = cleanAndExpandPath(cfg.AppDir)

	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.AppDir, defaultLogDirname)
	}
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	if cfg.FixtureDB == "" {
		cfg.FixtureDB = filepath.Join(cfg.AppDir, defaultFixtureDirname)
	}
	cfg.FixtureDB = cleanAndExpandPath(cfg.FixtureDB)

	cfg.ResolvedTarget, err = difficulty.TargetFromHex(cfg.Target)
	if err != nil {
		return nil, errors.Wrap(err, "invalid --target")
	}

	if cfg.NumberOfBlocks == 0 {
		return nil, errors.New("--numblocks must be positive")
	}
	if cfg.Workers < 1 {
		return nil, errors.Errorf("--workers must be positive, got %d", cfg.Workers)
	}
	if cfg.SpendPerBlock < 0 {
		return nil, errors.Errorf("--spend-per-block can't be negative, got %d", cfg.SpendPerBlock)
	}
	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return nil, errors.New("The profile port must be between 1024 and 65535")
		}
	}
	if cfg.Mnemonic != "" && !bip39.IsMnemonicValid(cfg.Mnemonic) {
		return nil, errors.New("--mnemonic is not a valid BIP39 mnemonic")
	}

	return cfg, nil
}

// LogFile returns the path of the log file.
func (cfg *Config) LogFile() string {
	return filepath.Join(cfg.LogDir, LogFilename)
}

// ErrLogFile returns the path of the error log file.
func (cfg *Config) ErrLogFile() string {
	return filepath.Join(cfg.LogDir, ErrLogFilename)
}
