// Package discord provides Discord bot integration
package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gmsas95/habitlens/internal/channels"
	"github.com/gmsas95/habitlens/internal/notify"
	"go.uber.org/zap"
)

const commandPrefix = "!"

// Config holds Discord bot configuration
type Config struct {
	Token     string
	ChannelID string // Channel that receives reminders and may send commands
}

// messageSender is the part of the Discord session used to post messages
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Bot sends reminders to a Discord channel and answers habit commands
type Bot struct {
	session  *discordgo.Session
	sender   messageSender
	commands *channels.Commands
	config   Config
	logger   *zap.Logger
}

// NewBot creates a new Discord bot
func NewBot(cfg Config, commands *channels.Commands, logger *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	if cfg.ChannelID == "" {
		return nil, fmt.Errorf("discord channel id is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if commands == nil {
		commands = channels.NewCommands(nil)
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &Bot{
		session:  session,
		sender:   session,
		commands: commands,
		config:   cfg,
		logger:   logger,
	}

	session.AddHandler(bot.messageCreate)
	session.AddHandler(bot.ready)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return bot, nil
}

// Name implements notify.Notifier
func (b *Bot) Name() string { return "discord" }

// Notify posts the reminder to the configured channel
func (b *Bot) Notify(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.sender.ChannelMessageSend(b.config.ChannelID, msg.Text())
	return err
}

// Start opens the gateway connection for commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord connection: %w", err)
	}
	b.logger.Info("Discord bot started")
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) ready(s *discordgo.Session, event *discordgo.Ready) {
	b.logger.Info("Discord bot ready",
		zap.String("username", event.User.Username),
		zap.Int("guilds", len(event.Guilds)),
	)
}

func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	b.handleMessage(context.Background(), m.ChannelID, m.Content)
}

// handleMessage answers prefixed commands posted in the configured channel
func (b *Bot) handleMessage(ctx context.Context, channelID, content string) {
	if channelID != b.config.ChannelID || !strings.HasPrefix(content, commandPrefix) {
		return
	}

	command, args, _ := strings.Cut(strings.TrimPrefix(content, commandPrefix), " ")
	reply := b.commands.Reply(ctx, command, args)

	if _, err := b.sender.ChannelMessageSend(channelID, reply); err != nil {
		b.logger.Error("Failed to send message", zap.String("channel_id", channelID), zap.Error(err))
	}
}
