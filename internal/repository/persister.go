package repository

import (
	"context"
	"log"
	"sync"
	"time"

	"task-keeper/internal/store"
)

// DefaultDebounce is how long the persister waits for mutation bursts to go
// quiet before writing.
const DefaultDebounce = 300 * time.Millisecond

// Persister subscribes to board changes and writes them out after a short
// quiescence window, coalescing rapid successive mutations into one save.
type Persister struct {
	states   *StateRepository
	debounce time.Duration

	mu      sync.Mutex
	pending *store.State
	timer   *time.Timer
}

func NewPersister(states *StateRepository, debounce time.Duration) *Persister {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Persister{states: states, debounce: debounce}
}

// Enqueue records the latest snapshot and (re)arms the debounce timer. Safe
// to call from any goroutine; only the newest snapshot is ever written.
func (p *Persister) Enqueue(snap *store.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pending = snap
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.debounce, p.flush)
}

// Flush writes any pending snapshot immediately. Called on shutdown so the
// debounce window never drops the final mutations.
func (p *Persister) Flush() {
	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()
	p.flush()
}

func (p *Persister) flush() {
	p.mu.Lock()
	snap := p.pending
	p.pending = nil
	p.mu.Unlock()

	if snap == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.states.Save(ctx, snap); err != nil {
		log.Printf("[warn] persist state: %v", err)
	}
}
