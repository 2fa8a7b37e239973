package view

import (
	"sort"
	"sync"
	"time"
)

// Panel scopes a status message to the form or panel that triggered it.
type Panel string

const (
	PanelAuth     Panel = "auth"
	PanelBrowse   Panel = "browse"
	PanelUpload   Panel = "upload"
	PanelInvite   Panel = "invite"
	PanelSupport  Panel = "support"
	PanelAdmin    Panel = "admin"
	PanelSettings Panel = "settings"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

type Status struct {
	Panel Panel
	Kind  Kind
	Text  string
}

type entry struct {
	status Status
	gen    uint64
}

// Board keeps at most one message per panel. Each message clears itself
// after the board's TTL unless a newer message replaced it first.
type Board struct {
	ttl time.Duration

	mu      sync.Mutex
	gen     uint64
	entries map[Panel]entry
	notify  func()
}

func NewBoard(ttl time.Duration) *Board {
	return &Board{ttl: ttl, entries: make(map[Panel]entry)}
}

// OnClear registers fn to run after a message expires.
func (b *Board) OnClear(fn func()) {
	b.mu.Lock()
	b.notify = fn
	b.mu.Unlock()
}

func (b *Board) Post(p Panel, k Kind, text string) {
	b.mu.Lock()
	b.gen++
	gen := b.gen
	b.entries[p] = entry{status: Status{Panel: p, Kind: k, Text: text}, gen: gen}
	b.mu.Unlock()

	time.AfterFunc(b.ttl, func() { b.expire(p, gen) })
}

func (b *Board) Success(p Panel, text string) { b.Post(p, KindSuccess, text) }

func (b *Board) Error(p Panel, text string) { b.Post(p, KindError, text) }

func (b *Board) Info(p Panel, text string) { b.Post(p, KindInfo, text) }

// Snapshot returns the live messages ordered by panel.
func (b *Board) Snapshot() []Status {
	b.mu.Lock()
	out := make([]Status, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e.status)
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Panel < out[j].Panel })
	return out
}

func (b *Board) Clear() {
	b.mu.Lock()
	b.entries = make(map[Panel]entry)
	b.mu.Unlock()
}

func (b *Board) expire(p Panel, gen uint64) {
	b.mu.Lock()
	e, ok := b.entries[p]
	if !ok || e.gen != gen {
		b.mu.Unlock()
		return
	}
	delete(b.entries, p)
	fn := b.notify
	b.mu.Unlock()

	if fn != nil {
		fn()
	}
}
