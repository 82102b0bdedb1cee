package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"StreamerPoll/model"
	"StreamerPoll/poll"
	"StreamerPoll/repo"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// messageSender is the part of *bot.Bot the handler talks to.
type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// PollBotHandler feeds Telegram chat messages to one poll engine per chat and
// answers the poll control commands.
type PollBotHandler struct {
	Registry *poll.Registry
	Source   repo.ConfigSource
	log      zerolog.Logger
}

func NewPollBotHandler(
	registry *poll.Registry,
	source repo.ConfigSource,
	log zerolog.Logger,
) *PollBotHandler {
	return &PollBotHandler{
		Registry: registry,
		Source:   source,
		log:      log,
	}
}

const helpText = `I run surprise streamer polls in this chat.
Every message raises the chance of a poll; after one, things cool down for a while.

/start – turn polls on
/stop – turn polls off (a pending result is cancelled)
/poll – run a poll right now
/resetpoll – reset the poll counters
/status – show the current chance and cooldown
/character <name> – set who announces the polls
/reloadpoll – reload the poll options
/help – show this message`

func (p *PollBotHandler) Handler(ctx context.Context, b *bot.Bot, update *models.Update) {
	p.handle(ctx, b, update)
}

func (p *PollBotHandler) handle(ctx context.Context, sender messageSender, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	chatID := update.Message.Chat.ID
	engine := p.Registry.Engine(telegramKey(chatID), &telegramEmitter{
		ctx:    ctx,
		sender: sender,
		chatID: chatID,
		log:    p.log,
	})

	command, arg := parseCommand(update.Message.Text)
	if command == "" {
		isFromUser := update.Message.From != nil && !update.Message.From.IsBot
		if _, err := engine.OnChatMessage(isFromUser); err != nil {
			p.log.Debug().Err(err).Int64("chat", chatID).Msg("poll skipped")
		}
		return
	}

	if update.Message.From != nil {
		p.log.Info().Int64("chat", chatID).Str("user", update.Message.From.Username).Str("command", command).Msg("command received")
	}

	var text string
	switch command {
	case "/start":
		engine.Start()
		text = "Streamer polls are on! Keep chatting and one will pop up."
	case "/stop":
		engine.Stop()
		text = "Streamer polls are off. Use /start to turn them back on."
	case "/resetpoll":
		engine.Reset()
		text = "Poll counters reset."
	case "/status":
		text = statusText(engine)
	case "/character":
		if arg == "" {
			text = "Usage: /character <name>"
			break
		}
		engine.SetCharacterName(arg)
		text = fmt.Sprintf("Polls will now be announced by %s.", arg)
	case "/reloadpoll":
		cfg := repo.LoadPollConfig(ctx, p.Source, p.log)
		p.Registry.Reload(cfg)
		text = fmt.Sprintf("Poll config reloaded: %d options, %d per poll.", len(cfg.PollOptions), cfg.OptionsPerPoll)
	case "/poll":
		_, err := engine.TriggerPoll()
		if err == nil {
			// the engine already posted the poll
			return
		}
		text = pollErrorText(err)
	case "/help":
		text = helpText
	default:
		text = "I didn't understand that command. Use /help."
	}

	send(ctx, sender, chatID, text, p.log)
}

func statusText(engine *poll.Engine) string {
	state := engine.State()
	status := "on"
	if !engine.Active() {
		status = "off"
	}
	pending := "no"
	if engine.PollPending() {
		pending = "yes"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Polls: %s\n", status)
	fmt.Fprintf(&b, "Messages since last poll: %d\n", state.MessageCount)
	fmt.Fprintf(&b, "Chance on next message: %.0f%%\n", state.EventChance*100)
	fmt.Fprintf(&b, "Cooldown: %d messages\n", state.CooldownRemaining)
	fmt.Fprintf(&b, "Result pending: %s\n", pending)
	fmt.Fprintf(&b, "Announced by: %s", engine.CharacterName())
	return b.String()
}

func pollErrorText(err error) string {
	switch {
	case errors.Is(err, model.ErrPollInProgress):
		return "A poll is already running, wait for its result."
	case errors.Is(err, model.ErrEngineInactive):
		return "Polls are off. Use /start first."
	case errors.Is(err, model.ErrNoPollOptions):
		return "There are no poll options configured."
	default:
		return "Not enough fresh poll options right now, try again later."
	}
}

// parseCommand splits "/cmd@BotName some args" into "/cmd" and "some args".
// Plain chat text yields an empty command.
func parseCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	command, arg, _ := strings.Cut(text, " ")
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	return strings.ToLower(command), strings.TrimSpace(arg)
}

func telegramKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func send(ctx context.Context, sender messageSender, chatID int64, text string, log zerolog.Logger) {
	_, err := sender.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("error sending message")
	}
}
