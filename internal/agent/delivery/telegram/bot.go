package telegram

import (
	"context"
	"fmt"
	"strconv"

	"golang-finance-agent/internal/agent/formatter"
	"golang-finance-agent/internal/agent/service"
	"golang-finance-agent/internal/entity"
	"golang-finance-agent/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const welcomeMessage = `👋 Ask me anything about finance, business, or markets.

Examples:
- what is the stock price of AAPL
- show me a 6 month chart for tesla
- compare AAPL vs MSFT over 2 years
- what is the latest news sentiment on reliance`

// Bot consumes Telegram updates over long polling and answers each message
// through the query agent. Every chat gets its own conversation session.
type Bot struct {
	bot      *tgbotapi.BotAPI
	agent    service.QueryAgent
	sessions service.SessionManager
	logger   *logger.Logger
}

// NewBot creates a new Telegram bot consumer.
func NewBot(botToken string, agent service.QueryAgent, sessions service.SessionManager, log *logger.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Bot{
		bot:      bot,
		agent:    agent,
		sessions: sessions,
		logger:   log,
	}, nil
}

// Run polls for updates until the context is canceled.
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.bot.GetUpdatesChan(updateConfig)

	b.logger.Info("Telegram bot started", logger.StringField("username", b.bot.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		if msg.Command() == "start" || msg.Command() == "help" {
			b.sendText(chatID, welcomeMessage)
		}
		return
	}

	session := b.sessions.GetOrCreate("tg:" + strconv.FormatInt(chatID, 10))
	result := b.agent.HandleQuery(ctx, session, msg.Text)

	switch r := result.(type) {
	case entity.StockChart:
		b.sendPhoto(chatID, r.Ticker+".png", r.Image, formatter.RenderTelegram(result))
	case entity.StockComparison:
		b.sendPhoto(chatID, "comparison.png", r.Image, formatter.RenderTelegram(result))
	default:
		b.sendText(chatID, formatter.RenderTelegram(result))
	}
}

func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send telegram message", logger.ErrorField(err), logger.Field("chat_id", chatID))
	}
}

func (b *Bot) sendPhoto(chatID int64, name string, image []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: name, Bytes: image})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.bot.Send(photo); err != nil {
		b.logger.Error("Failed to send telegram photo", logger.ErrorField(err), logger.Field("chat_id", chatID))
	}
}
