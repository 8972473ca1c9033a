package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/foundation/blockchain/chain"
	"github.com/ardanlabs/ledger/foundation/blockchain/codec"
	"github.com/ardanlabs/ledger/foundation/blockchain/contract"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("LEDGER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Genesis struct {
			Path string `conf:"default:zblock/genesis.json"`
		}
		Demo struct {
			From     string  `conf:"default:Mary"`
			To       string  `conf:"default:John"`
			Amount   float64 `conf:"default:10"`
			Category string  `conf:"default:domestic"`
		}
		Export struct {
			Format string `conf:"default:json"`
			Path   string
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "append-only ledger",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "LEDGER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// Ledger Support

	gen, err := genesis.Load(cfg.Genesis.Path)
	if err != nil {
		return fmt.Errorf("unable to load genesis: %w", err)
	}

	// Every event raised by the chain carries the same trace id so a single
	// run can be followed through the logs.
	traceID := uuid.NewString()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", traceID)
	}

	chainCfg, err := gen.ChainConfig(ev)
	if err != nil {
		return err
	}

	ch, err := chain.New(chainCfg)
	if err != nil {
		return fmt.Errorf("unable to construct chain: %w", err)
	}

	for _, ctr := range chainCfg.Contracts {
		if fs, ok := ctr.(contract.FeeSchedule); ok {
			log.Infow("startup", "status", "fee schedule", "domestic", fs.Rate(database.Domestic), "international", fs.Rate(database.International))
		}
	}

	log.Infow("startup", "status", "ledger ready", "digest", gen.Digest, "difficulty", gen.Difficulty, "seal", gen.Seal, "contracts", ch.Contracts())

	// =========================================================================
	// Demonstration

	if _, err := ch.AddBlock(ctx, ch.NewBlock()); err != nil {
		return fmt.Errorf("admitting genesis: %w", err)
	}

	category, err := database.ParseCategory(cfg.Demo.Category)
	if err != nil {
		return err
	}

	tx, err := database.NewTx(cfg.Demo.From, cfg.Demo.To, cfg.Demo.Amount, category)
	if err != nil {
		return err
	}

	next, err := ch.NextBlock(ctx, []database.Tx{tx})
	if err != nil {
		return fmt.Errorf("building block: %w", err)
	}

	block, err := ch.AddBlock(ctx, next)
	if err != nil {
		return fmt.Errorf("admitting block: %w", err)
	}

	for _, tx := range block.Trans {
		log.Infow("ledger", "status", "transaction recorded", "tx", tx.String())
	}

	if err := ch.Verify(); err != nil {
		log.Infow("ledger", "status", "verification failed", "ERROR", err)
	}

	// =========================================================================
	// Export

	b, err := codec.Encode(cfg.Export.Format, ch.Export())
	if err != nil {
		return fmt.Errorf("exporting chain: %w", err)
	}

	if cfg.Export.Path == "" {
		switch cfg.Export.Format {
		case codec.FormatCBOR:
			fmt.Println(hex.EncodeToString(b))
		default:
			fmt.Println(string(b))
		}
		return nil
	}

	if err := os.WriteFile(cfg.Export.Path, b, 0600); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	log.Infow("ledger", "status", "chain exported", "path", cfg.Export.Path, "format", cfg.Export.Format)

	return nil
}
