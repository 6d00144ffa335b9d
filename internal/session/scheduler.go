package session

import (
	"sync"
	"time"
)

// Scheduler delivers a repeating one-second tick. Both tracker timers run on
// the same scheduling primitive so tests can substitute a virtual clock.
type Scheduler interface {
	// Every invokes tick once per second until the returned stop function
	// is called. Stop must be safe to call more than once.
	Every(tick func()) (stop func())
}

// TickerScheduler is the real Scheduler, backed by time.Ticker.
type TickerScheduler struct{}

func (TickerScheduler) Every(tick func()) func() {
	ticker := time.NewTicker(time.Second)
	done := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				tick()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
