package bridge

import "sync"

const (
	defaultSubscriberCapacity = 64
	defaultBacklogLimit       = 50
)

// Logger receives diagnostic messages about dropped events.
type Logger interface {
	Printf(format string, args ...any)
}

// RouterOption customizes Router construction.
type RouterOption func(*Router)

// Router delivers workflow events to subscribers with buffering and a
// bounded backlog so late subscribers can catch up on recent activity.
type Router struct {
	mu           sync.RWMutex
	subscribers  map[*subscriber]struct{}
	backlog      []Event
	channelSize  int
	backlogLimit int
	logger       Logger
}

type subscriber struct {
	ch chan Event
}

// Subscription represents an active subscriber.
type Subscription struct {
	Events <-chan Event
	cancel func()
}

// Close terminates the subscription.
func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// NewRouter constructs a router with sane defaults.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{
		subscribers:  map[*subscriber]struct{}{},
		channelSize:  defaultSubscriberCapacity,
		backlogLimit: defaultBacklogLimit,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// RouterWithLogger injects a logger for drop diagnostics.
func RouterWithLogger(logger Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// RouterWithSubscriberCapacity overrides the buffered channel size per subscriber.
func RouterWithSubscriberCapacity(size int) RouterOption {
	return func(r *Router) {
		if size > 0 {
			r.channelSize = size
		}
	}
}

// RouterWithBacklogLimit overrides how many recent events are retained
// for late subscribers.
func RouterWithBacklogLimit(limit int) RouterOption {
	return func(r *Router) {
		if limit >= 0 {
			r.backlogLimit = limit
		}
	}
}

// Publish delivers the event to every subscriber and appends it to the
// backlog. Subscribers that cannot keep up lose the event rather than
// blocking the workflow mutation that produced it.
func (r *Router) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backlogLimit > 0 {
		r.backlog = append(r.backlog, event)
		if len(r.backlog) > r.backlogLimit {
			r.backlog = r.backlog[len(r.backlog)-r.backlogLimit:]
		}
	}
	for sub := range r.subscribers {
		select {
		case sub.ch <- event:
		default:
			if r.logger != nil {
				r.logger.Printf("bridge: subscriber full, dropping %s event for %s", event.Type, event.PatientID)
			}
		}
	}
}

// Subscribe registers a new subscriber. When replay is true the current
// backlog is queued onto the channel before any live events arrive.
func (r *Router) Subscribe(replay bool) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := r.channelSize
	if replay && len(r.backlog) > size {
		size = len(r.backlog)
	}
	sub := &subscriber{ch: make(chan Event, size)}
	if replay {
		for _, event := range r.backlog {
			sub.ch <- event
		}
	}
	r.subscribers[sub] = struct{}{}
	return Subscription{
		Events: sub.ch,
		cancel: func() { r.unsubscribe(sub) },
	}
}

// Backlog returns a copy of the retained recent events, oldest first.
func (r *Router) Backlog() []Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.backlog) == 0 {
		return nil
	}
	out := make([]Event, len(r.backlog))
	copy(out, r.backlog)
	return out
}

func (r *Router) unsubscribe(sub *subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subscribers[sub]; !ok {
		return
	}
	delete(r.subscribers, sub)
	close(sub.ch)
}
