package reactive

import (
	"sync"
	"time"
)

// Debouncer mirrors a source [Value] into an output Value once the source has
// been quiet for the configured delay.
type Debouncer[T any] struct {
	source *Value[T]
	output *Value[T]
	delay  time.Duration
	clock  Clock

	emit sync.Mutex // serialises output writes from overlapping timers

	mu          sync.Mutex
	pending     Timer
	generation  uint64
	stopped     bool
	unsubscribe func()
}

// Debounce returns a debounced mirror of source and a func that stops it.
func Debounce[T any](source *Value[T], delay time.Duration) (*Value[T], func()) {
	d := NewDebouncer(source, delay, SystemClock{})
	return d.Output(), d.Stop
}

// NewDebouncer starts debouncing source on clock. The output starts at the
// source's current value.
//
// A delay of zero is still deferred through the clock.
func NewDebouncer[T any](source *Value[T], delay time.Duration, clock Clock) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	if clock == nil {
		clock = SystemClock{}
	}

	d := &Debouncer[T]{
		source: source,
		output: NewValue(source.Get()),
		delay:  delay,
		clock:  clock,
	}
	d.unsubscribe = source.Subscribe(func(T) { d.schedule() })
	return d
}

// Output returns the debounced value. Callers should treat it as read-only.
func (d *Debouncer[T]) Output() *Value[T] { return d.output }

// Delay returns the quiet period.
func (d *Debouncer[T]) Delay() time.Duration { return d.delay }

// Stop unsubscribes from the source and cancels any pending update.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.generation++
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.mu.Unlock()

	d.unsubscribe()
}

func (d *Debouncer[T]) schedule() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.pending != nil {
		d.pending.Stop()
	}

	d.generation++
	gen := d.generation
	d.pending = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire applies the source value if gen is still the latest schedule. A timer
// that already started running when Stop was called loses the race here.
//
// The generation check, the source read and the output write happen under
// emit, so an older timer can never publish after a newer one.
func (d *Debouncer[T]) fire(gen uint64) {
	d.emit.Lock()
	defer d.emit.Unlock()

	d.mu.Lock()
	if d.stopped || gen != d.generation {
		d.mu.Unlock()
		return
	}
	d.pending = nil
	next := d.source.Get()
	d.mu.Unlock()

	d.output.Set(next)
}
