package ost

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/guiguan/caster"
)

// Version is a published tree version.
type Version struct {
	Snapshot
	Seq uint64 // incremented by every Publish
}

// Head is the publication point for tree versions. A single writer publishes
// the root of each new version; any number of readers Load the current
// version and traverse it without further coordination, as published pages
// never change.
//
// Subscribers receive every published version in order. A subscriber which
// does not drain its channel stalls Publish.
type Head struct {
	mu     sync.Mutex // serializes publishers
	cur    atomic.Pointer[Version]
	cast   *caster.Caster
	closed atomic.Bool
}

// NewHead creates a head publishing initial as version 0. Cancelling ctx
// closes the head.
func NewHead(ctx context.Context, initial Snapshot) *Head {
	h := &Head{cast: caster.New(ctx)}
	h.cur.Store(&Version{Snapshot: initial})
	return h
}

// Load returns the current version.
func (h *Head) Load() Version {
	return *h.cur.Load()
}

// Publish makes s the current version and notifies subscribers.
func (h *Head) Publish(s Snapshot) (Version, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed.Load() {
		return Version{}, ErrHeadClosed
	}
	v := &Version{Snapshot: s, Seq: h.cur.Load().Seq + 1}
	h.cur.Store(v)
	tracer().Debugf("ost: published version %d with root %s", v.Seq, v.Root)
	if !h.cast.Pub(*v) {
		return *v, ErrHeadClosed
	}
	return *v, nil
}

// Subscribe returns a channel receiving every version published from now on.
// The channel is closed when ctx is cancelled or the head is closed.
func (h *Head) Subscribe(ctx context.Context, capacity uint) (<-chan Version, error) {
	if h.closed.Load() {
		return nil, ErrHeadClosed
	}
	sub, ok := h.cast.Sub(ctx, capacity)
	if !ok {
		return nil, ErrHeadClosed
	}
	out := make(chan Version, capacity)
	go func() {
		defer close(out)
		for {
			var msg interface{}
			select {
			case m, ok := <-sub:
				if !ok {
					return
				}
				msg = m
			case <-ctx.Done():
				return
			}
			v, ok := msg.(Version)
			if !ok {
				continue
			}
			select {
			case out <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close closes the head and all subscriptions.
func (h *Head) Close() {
	h.closed.Store(true)
	h.cast.Close()
}
