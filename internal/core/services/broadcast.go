package services

import "sync"

// broadcaster fans values out to subscribers without ever blocking the
// publisher; a slow subscriber loses its oldest pending value.
type broadcaster[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]chan T
}

// subscribe registers a channel; initial values are queued on it before any
// later publish.
func (b *broadcaster[T]) subscribe(buffer int, initial ...T) (<-chan T, func()) {
	if buffer < len(initial) {
		buffer = len(initial)
	}
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[int]chan T)
	}
	id := b.next
	b.next++
	ch := make(chan T, buffer)
	for _, v := range initial {
		ch <- v
	}
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}
