package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

// DefaultDismissAfter is how long an offer message stays up unanswered.
const DefaultDismissAfter = 30 * time.Second

const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
	ActionOpen    = "open"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type ActionHandler interface {
	Accept(ctx context.Context, bookingID string) error
	Decline(ctx context.Context, bookingID string) error
}

type OfferSubmitter interface {
	Submit(ctx context.Context, offer domain.IncomingBookingOffer) error
}

type presented struct {
	messageID int
	offer     domain.IncomingBookingOffer
	timer     *time.Timer
}

// TelegramPresenter is the full-screen notification surface: each offer is a
// message with Accept/Decline/Open buttons in the partner's chat. Unanswered
// messages are deleted after dismissAfter. A nil bot disables it.
type TelegramPresenter struct {
	bot          botAPI
	chatID       int64
	dismissAfter time.Duration
	now          func() time.Time
	log          *slog.Logger

	mu     sync.Mutex
	offers map[string]presented
}

func NewTelegramPresenter(token string, chatID int64, dismissAfter time.Duration, log *slog.Logger) (*TelegramPresenter, error) {
	if token == "" {
		log.Warn("telegram bot token is empty, offer notifications disabled")
		return newPresenter(nil, chatID, log), nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	p := newPresenter(bot, chatID, log)
	if dismissAfter > 0 {
		p.dismissAfter = dismissAfter
	}
	return p, nil
}

func newPresenter(bot botAPI, chatID int64, log *slog.Logger) *TelegramPresenter {
	return &TelegramPresenter{
		bot:          bot,
		chatID:       chatID,
		dismissAfter: DefaultDismissAfter,
		now:          time.Now,
		log:          log,
		offers:       make(map[string]presented),
	}
}

func (p *TelegramPresenter) Present(ctx context.Context, offer domain.IncomingBookingOffer) error {
	if p.bot == nil {
		p.log.Debug("offer notification skipped (bot disabled)", slog.String("booking_id", offer.BookingID))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	p.dismissOthers(offer.BookingID)

	msg := tgbotapi.NewMessage(p.chatID, FormatOffer(offer))
	msg.ParseMode = "Markdown"
	if offer.Actionable() {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Accept", ActionAccept+":"+offer.BookingID),
				tgbotapi.NewInlineKeyboardButtonData("Decline", ActionDecline+":"+offer.BookingID),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Open", ActionOpen+":"+offer.BookingID),
			),
		)
	}

	sent, err := p.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send offer notification: %w", err)
	}

	messageID := sent.MessageID

	p.mu.Lock()
	if prev, ok := p.offers[offer.BookingID]; ok && prev.timer != nil {
		prev.timer.Stop()
	}
	timer := time.AfterFunc(p.dismissAfter, func() { p.timeout(offer.BookingID, messageID) })
	p.offers[offer.BookingID] = presented{messageID: messageID, offer: offer, timer: timer}
	p.mu.Unlock()

	return nil
}

func (p *TelegramPresenter) Dismiss(ctx context.Context, bookingID string) error {
	p.mu.Lock()
	shown, ok := p.offers[bookingID]
	delete(p.offers, bookingID)
	p.mu.Unlock()

	if !ok || p.bot == nil {
		return nil
	}
	if shown.timer != nil {
		shown.timer.Stop()
	}
	return p.deleteMessage(shown.messageID)
}

// timeout deletes an offer message nobody answered, unless it was already
// dismissed or replaced.
func (p *TelegramPresenter) timeout(bookingID string, messageID int) {
	p.mu.Lock()
	shown, ok := p.offers[bookingID]
	if !ok || shown.messageID != messageID {
		p.mu.Unlock()
		return
	}
	delete(p.offers, bookingID)
	p.mu.Unlock()

	p.log.Debug("offer notification timed out", slog.String("booking_id", bookingID))
	if err := p.deleteMessage(messageID); err != nil {
		p.log.Debug("failed to remove timed out offer notification",
			slog.String("booking_id", bookingID),
			slog.String("error", err.Error()),
		)
	}
}

func (p *TelegramPresenter) deleteMessage(messageID int) error {
	if _, err := p.bot.Request(tgbotapi.NewDeleteMessage(p.chatID, messageID)); err != nil {
		return fmt.Errorf("dismiss offer notification: %w", err)
	}
	return nil
}

// Listen handles button taps until ctx is done.
func (p *TelegramPresenter) Listen(ctx context.Context, actions ActionHandler, intake OfferSubmitter) {
	if p.bot == nil {
		return
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := p.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			p.bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.CallbackQuery == nil {
				continue
			}
			p.HandleCallback(ctx, update.CallbackQuery, actions, intake)
		}
	}
}

func (p *TelegramPresenter) HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, actions ActionHandler, intake OfferSubmitter) {
	action, bookingID := ParseAction(query.Data)

	var err error
	reply := ""
	switch action {
	case ActionAccept:
		err = actions.Accept(ctx, bookingID)
		reply = "Accepted"
	case ActionDecline:
		err = actions.Decline(ctx, bookingID)
		reply = "Declined"
	case ActionOpen:
		err = p.reopen(ctx, bookingID, intake)
	default:
		p.log.Debug("unknown callback", slog.String("data", query.Data))
	}

	if err != nil {
		reply = domain.Message(err)
		p.log.Warn("offer action from notification failed",
			slog.String("action", action),
			slog.String("booking_id", bookingID),
			slog.String("error", err.Error()),
		)
	}

	if _, err := p.bot.Request(tgbotapi.NewCallback(query.ID, reply)); err != nil {
		p.log.Debug("failed to answer callback", slog.String("error", err.Error()))
	}
}

// reopen re-delivers a presented offer as a local-notification tap.
func (p *TelegramPresenter) reopen(ctx context.Context, bookingID string, intake OfferSubmitter) error {
	p.mu.Lock()
	shown, ok := p.offers[bookingID]
	p.mu.Unlock()

	if !ok {
		return domain.ErrNoActiveOffer
	}

	offer := shown.offer
	offer.Channel = domain.ChannelLocalNotification
	offer.ReceivedAt = p.now()
	return intake.Submit(ctx, offer)
}

func (p *TelegramPresenter) dismissOthers(bookingID string) {
	p.mu.Lock()
	var stale []string
	for id := range p.offers {
		if id != bookingID {
			stale = append(stale, id)
		}
	}
	p.mu.Unlock()

	for _, id := range stale {
		if err := p.Dismiss(context.Background(), id); err != nil {
			p.log.Debug("failed to dismiss replaced offer", slog.String("booking_id", id), slog.String("error", err.Error()))
		}
	}
}

func ParseAction(data string) (action, bookingID string) {
	action, bookingID, _ = strings.Cut(data, ":")
	return action, bookingID
}

func FormatOffer(offer domain.IncomingBookingOffer) string {
	return fmt.Sprintf(
		"*New Booking Request*\n\n"+"Service: %s\n"+"Amount: %s\n"+"When: %s\n"+"Address: %s",
		offer.DisplayService(),
		offer.DisplayAmount(),
		offer.DisplaySchedule(),
		offer.DisplayAddress(),
	)
}
