package query

import (
	"fmt"

	"ngadapter-go/packages/adapter/core"
	"ngadapter-go/packages/adapter/runtime"
)

// batch is the single-slot pending state for one change kind. The pending
// flag is the scheduling semaphore: at most one deferred batch per kind is
// armed at any time.
type batch struct {
	pending   bool
	resolvers []Resolver
	// initial callbacks run after the first pass only, repeat callbacks
	// after every later pass.
	initial []func()
	repeat  []func()
}

// tryArm sets the pending flag and reports whether it was previously clear.
func (b *batch) tryArm() bool {
	if b.pending {
		return false
	}
	b.pending = true
	return true
}

// Scheduler coalesces repeated children-change notifications into a single
// deferred resolution pass per kind per reconciliation cycle. Each scheduler
// is owned exclusively by one controller instance; there is no cross-instance
// sharing.
type Scheduler struct {
	rc      runtime.ReactiveContext
	view    batch
	content batch
}

// NewScheduler creates a scheduler deferring through the given context.
func NewScheduler(rc runtime.ReactiveContext) *Scheduler {
	return &Scheduler{rc: rc}
}

// Register buckets the resolvers and completion callbacks for one kind.
// Resolvers run in the order given; initial callbacks complete the first
// batch, repeat callbacks every batch after it.
func (s *Scheduler) Register(kind core.ChangeKind, resolvers []Resolver, initial, repeat []func()) {
	b := s.batch(kind)
	b.resolvers = resolvers
	b.initial = initial
	b.repeat = repeat
}

// Notify requests a resolution pass for the kind. A request arriving while a
// batch is already armed is absorbed. The deferred batch clears the
// semaphore before running, so a notification raised during resolver
// execution arms a fresh batch instead of being dropped. All resolvers of a
// batch complete before any completion callback runs.
func (s *Scheduler) Notify(kind core.ChangeKind) {
	b := s.batch(kind)
	if !b.tryArm() {
		return
	}
	s.rc.EvalAsync(func() {
		b.pending = false
		for _, resolve := range b.resolvers {
			resolve()
		}
		callbacks := b.repeat
		if b.initial != nil {
			callbacks = b.initial
			b.initial = nil
		}
		for _, callback := range callbacks {
			callback()
		}
	})
}

func (s *Scheduler) batch(kind core.ChangeKind) *batch {
	switch kind {
	case core.FromView:
		return &s.view
	case core.FromContent:
		return &s.content
	default:
		panic(fmt.Sprintf("query: unknown children change kind %d", kind))
	}
}
