package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
)

const defaultNoticeLimit = 50

// NoticeBoard keeps the latest partner-facing notices and pushes new ones to
// subscribers.
type NoticeBoard struct {
	mu      sync.Mutex
	recent  []domain.Notice
	limit   int
	updates broadcaster[domain.Notice]
	now     func() time.Time
}

func NewNoticeBoard(limit int) *NoticeBoard {
	if limit <= 0 {
		limit = defaultNoticeLimit
	}
	return &NoticeBoard{limit: limit, now: time.Now}
}

func (b *NoticeBoard) Publish(level domain.NoticeLevel, bookingID, title, detail string) domain.Notice {
	n := domain.Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Title:     title,
		Detail:    detail,
		BookingID: bookingID,
		At:        b.now().UTC(),
	}

	b.mu.Lock()
	b.recent = append(b.recent, n)
	if len(b.recent) > b.limit {
		b.recent = b.recent[len(b.recent)-b.limit:]
	}
	b.updates.publish(n)
	b.mu.Unlock()

	return n
}

// Recent returns stored notices, oldest first.
func (b *NoticeBoard) Recent() []domain.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.Notice, len(b.recent))
	copy(out, b.recent)
	return out
}

func (b *NoticeBoard) Subscribe(buffer int) (<-chan domain.Notice, func()) {
	return b.updates.subscribe(buffer)
}
