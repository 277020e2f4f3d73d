package websocket

import (
	"sync"

	"github.com/pmmpclub/prep-backend/internal/session"
	"github.com/rs/zerolog"
)

// Hub fans controller events out to a learner's open streams. It
// implements session.Notifier; Notify never blocks — a subscriber that
// cannot keep up has frames dropped rather than stalling the
// controller's hot path.
type Hub struct {
	mu   sync.Mutex
	subs map[int]map[chan session.Event]struct{}
	log  zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		subs: make(map[int]map[chan session.Event]struct{}),
		log:  log.With().Str("component", "ws_hub").Logger(),
	}
}

// Subscribe registers a stream for a learner and returns its event
// channel plus an idempotent unsubscribe func. Unsubscribing closes
// the channel, ending any range loop draining it.
func (h *Hub) Subscribe(learnerID int) (<-chan session.Event, func()) {
	ch := make(chan session.Event, 16)

	h.mu.Lock()
	set, ok := h.subs[learnerID]
	if !ok {
		set = make(map[chan session.Event]struct{})
		h.subs[learnerID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[learnerID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, learnerID)
				}
			}
			close(ch)
			h.mu.Unlock()
		})
	}
}

// Notify implements session.Notifier.
func (h *Hub) Notify(learnerID int, ev session.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[learnerID] {
		select {
		case ch <- ev:
		default:
			h.log.Warn().Int("learner_id", learnerID).Msg("event stream backlog, frame dropped")
		}
	}
}
