package run

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/YonasGr/binance-p2p/bot"
	"github.com/YonasGr/binance-p2p/cmd/env"
	"github.com/YonasGr/binance-p2p/market"
	"github.com/YonasGr/binance-p2p/provider/binance"
	"github.com/YonasGr/binance-p2p/provider/coingecko"
	"github.com/YonasGr/binance-p2p/server"
	"github.com/YonasGr/binance-p2p/server/config"
)

var errMissingToken = errors.New(
	"missing Telegram bot token: set -telegram-token or P2PBOT_TELEGRAM_TOKEN",
)

// runCfg wraps the bot configuration
type runCfg struct {
	config *config.Config

	configPath    string
	telegramToken string
}

// NewRunCmd creates the bot subcommand
func NewRunCmd() *ffcli.Command {
	cfg := &runCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "run",
		ShortUsage: "run [flags]",
		LongHelp:   "Runs the Binance P2P chat bot and its ops server",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

func (c *runCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the ops server",
	)

	fs.Int64Var(
		&c.config.HTTPTimeoutSeconds,
		"http-timeout",
		int64(config.DefaultHTTPTimeout/time.Second),
		"the bound, in seconds, on every upstream HTTP call",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the bot TOML configuration, if any",
	)

	fs.StringVar(
		&c.telegramToken,
		"telegram-token",
		"",
		"the Telegram bot API token",
	)
}

func (c *runCfg) exec(ctx context.Context, _ []string) error {
	// Read the bot configuration, if any
	if c.configPath != "" {
		botConfig, err := config.Read(c.configPath)
		if err != nil {
			return fmt.Errorf("unable to read bot config, %w", err)
		}

		c.config = botConfig
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	if c.telegramToken == "" {
		c.telegramToken = os.Getenv(env.Prefix + "_TELEGRAM_TOKEN")
	}

	// The token is the one required credential; nothing runs without it
	if c.telegramToken == "" {
		return errMissingToken
	}

	timeout := c.config.HTTPTimeout()

	// Set up the upstream clients
	var (
		p2pClient    = binance.NewP2PClient(binance.DefaultP2PURL, timeout)
		tickerSource = binance.NewTickerSource(timeout)
		coinClient   = coingecko.NewClient(coingecko.DefaultBaseURL, timeout)
	)

	resolver := market.NewResolver(
		tickerSource,
		market.WithLogger(logger),
		market.WithIntermediary(c.config.Market.Intermediary),
	)

	processor := bot.NewProcessor(
		p2pClient,
		resolver,
		coinClient,
		bot.WithLogger(logger),
		bot.WithMarketDefaults(c.config.Market.Asset, c.config.Market.Fiat),
	)

	tg, err := bot.NewTelegramBot(
		c.telegramToken,
		processor,
		bot.WithTelegramLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("unable to create Telegram bot, %w", err)
	}

	s, err := server.New(
		processor.Stats(),
		server.WithLogger(logger),
		server.WithConfig(c.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create ops server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		return tg.Run(gCtx)
	})

	group.Go(func() error {
		return s.Serve(gCtx)
	})

	return group.Wait()
}
