// Package notify шлёт администратору телеграм-сообщения о событиях
// магазина. Это необязательный канал: без токена все вызовы — no-op.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/school-rewards-web/internal/models"
)

type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zap.SugaredLogger
}

// NewTelegram возвращает nil, если токен или chatID не заданы; методы
// безопасны на nil-получателе.
func NewTelegram(token string, chatID int64, log *zap.SugaredLogger) *Telegram {
	if token == "" || chatID == 0 {
		return nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Warnw("telegram notifier disabled", "err", err)
		return nil
	}
	return &Telegram{bot: bot, chatID: chatID, log: log}
}

func (t *Telegram) OrderCreated(o *models.Order) {
	t.send(fmt.Sprintf("🛒 Новый заказ #%d: %s — %s (%d баллов)",
		o.ID, o.StudentName, o.ProductName, o.ProductPrice*o.Quantity))
}

func (t *Telegram) OrderCancelled(o *models.Order) {
	t.send(fmt.Sprintf("↩️ Заказ #%d отменён: %s — %s, баллы возвращены",
		o.ID, o.StudentName, o.ProductName))
}

func (t *Telegram) send(text string) {
	if t == nil {
		return
	}
	// отправка не должна задерживать ответ пользователю
	go func() {
		if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
			t.log.Warnw("telegram send failed", "err", err)
		}
	}()
}
