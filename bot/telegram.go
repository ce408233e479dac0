package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/xid"
)

const defaultCommandTimeout = 45 * time.Second

// TelegramBot binds the command processor to the Telegram long-poll API.
// Each inbound command runs on its own goroutine with a bounded timeout;
// the processor holds no shared state, so commands interleave freely.
type TelegramBot struct {
	api       *tgbotapi.BotAPI
	processor *Processor
	logger    *slog.Logger

	commandTimeout time.Duration
}

type TelegramOption func(b *TelegramBot)

// WithTelegramLogger specifies the logger for the transport binding
func WithTelegramLogger(l *slog.Logger) TelegramOption {
	return func(b *TelegramBot) {
		b.logger = l
	}
}

// WithCommandTimeout bounds a single command's execution, including all
// of its sequential upstream calls. Defaults to 45s
func WithCommandTimeout(d time.Duration) TelegramOption {
	return func(b *TelegramBot) {
		b.commandTimeout = d
	}
}

// NewTelegramBot creates the Telegram transport binding.
// The token is validated against the Telegram API during construction
func NewTelegramBot(token string, processor *Processor, opts ...TelegramOption) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create Telegram session: %w", err)
	}

	b := &TelegramBot{
		api:            api,
		processor:      processor,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		commandTimeout: defaultCommandTimeout,
	}

	// Apply the options
	for _, opt := range opts {
		opt(b)
	}

	return b, nil
}

// Run consumes the Telegram update stream [BLOCKING]
func (b *TelegramBot) Run(ctx context.Context) error {
	b.logger.Info(
		"telegram bot started",
		"username", b.api.Self.UserName,
	)

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30

	updates := b.api.GetUpdatesChan(updateCfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("telegram bot shut down")

			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			msg := update.Message
			if msg == nil || !msg.IsCommand() {
				continue
			}

			// Commands are independent; let them interleave
			go b.handleCommand(ctx, msg)
		}
	}
}

// handleCommand executes one inbound command with a bounded lifetime
func (b *TelegramBot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmdCtx, cancelFn := context.WithTimeout(ctx, b.commandTimeout)
	defer cancelFn()

	logger := b.logger.With(
		"id", xid.New().String(),
		"command", msg.Command(),
		"chat_id", msg.Chat.ID,
	)

	logger.Info("handling command")

	send := func(text string) {
		reply := tgbotapi.NewMessage(msg.Chat.ID, text)
		if _, err := b.api.Send(reply); err != nil {
			logger.Error(
				"unable to send reply",
				"err", err,
			)
		}
	}

	b.processor.Handle(
		cmdCtx,
		msg.Command(),
		strings.Fields(msg.CommandArguments()),
		send,
	)
}
