package sync

import (
	"sync"
	"time"
)

// Conflict конфликт между локальным и удалённым изменением одной грани
type Conflict struct {
	LocalChange  *Change
	RemoteChange *Change
	DetectedAt   time.Time
}

// ConflictResolver разрешает конфликты между узлами
type ConflictResolver interface {
	// Resolve возвращает изменение, которое должно остаться в мире
	Resolve(conflict *Conflict) *Change
}

// LWWResolver реализует стратегию Last-Write-Wins.
// При равных метках побеждает узел с меньшим идентификатором,
// чтобы все узлы пришли к одному результату.
type LWWResolver struct{}

// NewLWWResolver создаёт новый Last-Write-Wins resolver
func NewLWWResolver() ConflictResolver {
	return LWWResolver{}
}

func (LWWResolver) Resolve(c *Conflict) *Change {
	local, remote := c.LocalChange.Timestamp, c.RemoteChange.Timestamp
	switch {
	case remote.After(local):
		return c.RemoteChange
	case local.After(remote):
		return c.LocalChange
	case c.RemoteChange.SourceRegion < c.LocalChange.SourceRegion:
		return c.RemoteChange
	default:
		return c.LocalChange
	}
}

// ledger помнит последнее принятое изменение каждой грани и обёртки
type ledger struct {
	mu       sync.Mutex
	last     map[changeKey]Change
	resolver ConflictResolver
}

func newLedger(r ConflictResolver) *ledger {
	if r == nil {
		r = NewLWWResolver()
	}
	return &ledger{last: make(map[changeKey]Change), resolver: r}
}

// observe фиксирует локальное изменение
func (l *ledger) observe(ch Change) {
	l.mu.Lock()
	l.last[ch.key()] = ch
	l.mu.Unlock()
}

// admit решает, применять ли удалённое изменение, и запоминает победителя
func (l *ledger) admit(remote Change) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := remote.key()
	local, seen := l.last[k]
	if !seen {
		l.last[k] = remote
		return true
	}
	winner := l.resolver.Resolve(&Conflict{LocalChange: &local, RemoteChange: &remote, DetectedAt: time.Now()})
	if winner != &remote {
		return false
	}
	l.last[k] = remote
	return true
}

func (l *ledger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.last)
}
