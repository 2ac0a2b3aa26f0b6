package error_notificator

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Infra sends anomaly alerts to an admin telegram chat. Without
// ERROR_BOT_TOKEN / ERROR_ADMIN_CHAT_ID it degrades to log-only.
type Infra struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewInfra() *Infra {
	token := os.Getenv("ERROR_BOT_TOKEN")
	chatID, _ := strconv.ParseInt(os.Getenv("ERROR_ADMIN_CHAT_ID"), 10, 64)

	if token == "" || chatID == 0 {
		log.Printf("[error_notificator] telegram alerts disabled (no token or chat id)")
		return &Infra{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[error_notificator] bot init failed: %v, alerts disabled", err)
		return &Infra{}
	}

	return &Infra{bot: bot, chatID: chatID}
}

func (i *Infra) Notify(ctx context.Context, stage string, err error, details string) error {
	text := fmt.Sprintf(
		"❗ Ошибка в пайплайне (%s)\n\nОшибка: %v\n\nДетали: %s",
		stage,
		err,
		details,
	)

	if i.bot == nil {
		log.Printf("[error_notificator] %s", text)
		return nil
	}

	msg := tgbotapi.NewMessage(i.chatID, text)

	_, sendErr := i.bot.Send(msg)
	if sendErr != nil {
		log.Printf("[error_notificator] send fail: %v", sendErr)
		return sendErr
	}

	return nil
}
