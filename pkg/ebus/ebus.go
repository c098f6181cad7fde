// Package ebus carries live scalar updates between the pieces of the
// viewer. A track player publishes fix coordinates as topics, plot
// followers subscribe to them. The bus retains the last value per topic
// so a late subscriber starts with the current state.
package ebus

import (
	"errors"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event bus is closed")

const defaultRetention = time.Minute

// Message pairs a topic with its published value.
type Message struct {
	Topic string
	Value float64
}

// Bus routes published values to per-topic and wildcard subscribers.
// Unchanged values are dropped, so subscribers only see transitions.
type Bus struct {
	in       chan Message
	unsub    chan chan float64
	unsubAll chan chan Message
	done     chan struct{}
	closer   sync.Once

	mu      sync.Mutex
	subs    map[string][]chan float64
	subsAll []chan Message

	aggMu sync.Mutex
	aggs  []*Aggregator

	retained *ttlcache.Cache[string, float64]
}

// Option configures a Bus during New.
type Option func(*Bus) error

// WithRetention sets how long the last value of an idle topic is replayed
// to new subscribers.
func WithRetention(d time.Duration) Option {
	return func(b *Bus) error {
		if d <= 0 {
			return errors.New("retention must be positive")
		}
		b.retained = ttlcache.New[string, float64](
			ttlcache.WithTTL[string, float64](d),
		)
		return nil
	}
}

func New(options ...Option) (*Bus, error) {
	b := &Bus{
		in:       make(chan Message, 100),
		unsub:    make(chan chan float64, 100),
		unsubAll: make(chan chan Message, 100),
		done:     make(chan struct{}),
		subs:     make(map[string][]chan float64),
		retained: ttlcache.New[string, float64](
			ttlcache.WithTTL[string, float64](defaultRetention),
		),
	}
	for _, option := range options {
		if err := option(b); err != nil {
			return nil, err
		}
	}
	go b.run()
	return b, nil
}

func (b *Bus) run() {
	for {
		select {
		case <-b.done:
			return
		case msg := <-b.in:
			if v := b.retained.Get(msg.Topic); v != nil && v.Value() == msg.Value {
				continue
			}
			b.retained.Set(msg.Topic, msg.Value, ttlcache.DefaultTTL)
			b.deliver(msg)
			b.aggMu.Lock()
			aggs := b.aggs
			b.aggMu.Unlock()
			for _, agg := range aggs {
				agg.fun(b, msg.Topic, msg.Value)
			}
		case ch := <-b.unsub:
			b.dropSub(ch)
		case ch := <-b.unsubAll:
			b.dropSubAll(ch)
		}
	}
}

func (b *Bus) deliver(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subsAll {
		select {
		case sub <- msg:
		default:
			// A wildcard subscriber that cannot keep up is cut loose
			// rather than stalling the feed.
			go b.UnsubscribeAll(sub)
		}
	}
	for _, sub := range b.subs[msg.Topic] {
		select {
		case sub <- msg.Value:
		default:
		}
	}
}

func (b *Bus) dropSub(ch chan float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, subz := range b.subs {
		for i, sub := range subz {
			if sub == ch {
				b.subs[topic] = append(subz[:i], subz[i+1:]...)
				close(ch)
				if len(b.subs[topic]) == 0 {
					delete(b.subs, topic)
				}
				return
			}
		}
	}
}

func (b *Bus) dropSubAll(ch chan Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subsAll {
		if sub == ch {
			b.subsAll = append(b.subsAll[:i], b.subsAll[i+1:]...)
			close(ch)
			return
		}
	}
}

// Publish hands a value to the bus. It never blocks; a full bus is an
// error the caller may ignore for best-effort feeds.
func (b *Bus) Publish(topic string, value float64) error {
	select {
	case <-b.done:
		return ErrClosed
	default:
	}
	select {
	case b.in <- Message{Topic: topic, Value: value}:
		return nil
	default:
		return errors.New("publish channel full")
	}
}

// Subscribe delivers every transition of one topic. The retained value,
// if any, is delivered first.
func (b *Bus) Subscribe(topic string) chan float64 {
	ch := make(chan float64, 100)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()
	if itm := b.retained.Get(topic); itm != nil {
		ch <- itm.Value()
	}
	return ch
}

// SubscribeFunc runs f for every transition of one topic and returns the
// unsubscribe function.
func (b *Bus) SubscribeFunc(topic string, f func(float64)) func() {
	ch := b.Subscribe(topic)
	go func() {
		for v := range ch {
			f(v)
		}
	}()
	return func() {
		b.Unsubscribe(ch)
	}
}

// SubscribeAll delivers every transition of every topic, starting with
// the retained values.
func (b *Bus) SubscribeAll() chan Message {
	ch := make(chan Message, 100)
	b.mu.Lock()
	b.subsAll = append(b.subsAll, ch)
	b.mu.Unlock()
	b.retained.Range(func(item *ttlcache.Item[string, float64]) bool {
		ch <- Message{Topic: item.Key(), Value: item.Value()}
		return true
	})
	return ch
}

// SubscribeAllFunc runs f for every transition of every topic and returns
// the unsubscribe function.
func (b *Bus) SubscribeAllFunc(f func(topic string, value float64)) func() {
	ch := b.SubscribeAll()
	go func() {
		for msg := range ch {
			f(msg.Topic, msg.Value)
		}
	}()
	return func() {
		b.UnsubscribeAll(ch)
	}
}

func (b *Bus) Unsubscribe(ch chan float64) {
	select {
	case b.unsub <- ch:
	case <-b.done:
	}
}

func (b *Bus) UnsubscribeAll(ch chan Message) {
	select {
	case b.unsubAll <- ch:
	case <-b.done:
	}
}

// Close stops the routing loop. Subscriber channels are left open but
// idle; Publish fails afterwards.
func (b *Bus) Close() {
	b.closer.Do(func() {
		close(b.done)
	})
}
