package handler

import (
	"context"
	"fmt"

	"StreamerPoll/model"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"
)

// telegramEmitter posts engine messages to one Telegram chat. ctx is the bot's
// lifetime context, so delayed results still go out after the update that
// triggered the poll has been handled.
type telegramEmitter struct {
	ctx    context.Context
	sender messageSender
	chatID int64
	log    zerolog.Logger
}

func (t *telegramEmitter) Emit(msg model.ChatMessage) error {
	_, err := t.sender.SendMessage(t.ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   msg.Text,
	})
	if err != nil {
		return fmt.Errorf("error sending poll message: %w", err)
	}
	t.log.Debug().Int64("chat", t.chatID).Str("name", msg.Name).Msg("poll message sent")
	return nil
}
