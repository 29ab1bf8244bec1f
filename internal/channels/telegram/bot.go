package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gmsas95/habitlens/internal/channels"
	"github.com/gmsas95/habitlens/internal/notify"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Config holds Telegram bot configuration
type Config struct {
	Token   string
	ChatIDs []int64 // Chats that receive reminders and may send commands
	// Endpoint overrides the Bot API URL format, e.g. for a local Bot API server
	Endpoint string
}

// Bot sends reminders to Telegram chats and answers habit commands
type Bot struct {
	api       *tgbotapi.BotAPI
	commands  *channels.Commands
	logger    *zap.Logger
	chatIDs   []int64
	allowList map[int64]bool
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewBot creates a new Telegram bot
func NewBot(cfg Config, commands *channels.Commands, logger *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if commands == nil {
		commands = channels.NewCommands(nil)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.Token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = false

	logger.Info("Telegram bot authorized", zap.String("username", api.Self.UserName))

	ctx, cancel := context.WithCancel(context.Background())

	allowList := make(map[int64]bool, len(cfg.ChatIDs))
	for _, id := range cfg.ChatIDs {
		allowList[id] = true
	}

	return &Bot{
		api:       api,
		commands:  commands,
		logger:    logger,
		chatIDs:   cfg.ChatIDs,
		allowList: allowList,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Name implements notify.Notifier
func (b *Bot) Name() string { return "telegram" }

// Notify sends the reminder to every configured chat
func (b *Bot) Notify(ctx context.Context, msg notify.Message) error {
	var errs []error
	for _, chatID := range b.chatIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := b.sendMessage(chatID, msg.Text()); err != nil {
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

// Start starts polling for commands
func (b *Bot) Start() error {
	b.wg.Add(1)
	go b.run()
	return nil
}

// Stop stops polling
func (b *Bot) Stop() {
	b.cancel()
	b.api.StopReceivingUpdates()
	b.wg.Wait()
}

func (b *Bot) run() {
	defer b.wg.Done()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-b.ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if err := b.handleUpdate(update); err != nil {
				b.logger.Error("Failed to handle update", zap.Error(err))
			}
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	if len(b.allowList) > 0 && !b.allowList[msg.Chat.ID] {
		return nil
	}

	command, args := "help", ""
	if msg.IsCommand() {
		command, args = msg.Command(), msg.CommandArguments()
	}

	_, err := b.sendMessage(msg.Chat.ID, b.commands.Reply(b.ctx, command, args))
	return err
}

func (b *Bot) sendMessage(chatID int64, text string) (int, error) {
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
		return 0, err
	}
	return sent.MessageID, nil
}

// GetBotInfo returns bot information
func (b *Bot) GetBotInfo() map[string]interface{} {
	return map[string]interface{}{
		"username": b.api.Self.UserName,
		"id":       b.api.Self.ID,
		"chats":    len(b.chatIDs),
	}
}
