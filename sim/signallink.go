package sim

import "sync"

// SignalLink is an M-notifier, N-waiter rendezvous gate: once
// `notifiers` distinct calls to Notify have landed, every blocked (and
// every subsequent, until the gate closes again) call to Wait is
// released; the gate re-arms once `waiters` calls to Wait have
// consumed the release. Translates the original's SignalLink
// condition-variable pair.
//
// Abort is the Go-idiomatic stand-in for boost::thread::interrupt: it
// wakes any goroutine blocked in Wait and makes every future Wait
// return immediately, so a shutdown never leaves a worker parked on a
// notify that will never come.
type SignalLink struct {
	mu   sync.Mutex
	cond *sync.Cond

	notifiers, notifySeen int
	waiters, waitSeen     int
	ready                 bool
	aborted               bool
}

// NewSignalLink returns a link requiring `notifiers` Notify calls to
// open the gate and `waiters` Wait calls to close it again. If
// startReady is true the gate begins open, letting the first round of
// waiters through before any notifier has run.
func NewSignalLink(notifiers, waiters int, startReady bool) *SignalLink {
	s := &SignalLink{notifiers: notifiers, waiters: waiters, ready: startReady}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Notify registers one notifier's arrival. Once all notifiers for this
// round have called Notify, the gate opens and every waiter is released.
func (s *SignalLink) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.aborted {
		return
	}
	s.notifySeen++
	if s.notifySeen == s.notifiers {
		s.notifySeen = 0
		s.ready = true
		s.cond.Broadcast()
	}
}

// Wait blocks until the gate is open, then registers this waiter's
// arrival. Once all waiters for this round have called Wait, the gate
// closes again for the next round. Returns false if the link was
// aborted while waiting.
func (s *SignalLink) Wait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for !s.ready && !s.aborted {
		s.cond.Wait()
	}
	if s.aborted {
		return false
	}
	s.waitSeen++
	if s.waitSeen == s.waiters {
		s.waitSeen = 0
		s.ready = false
	}
	return true
}

// Abort wakes every goroutine currently blocked in Wait, and causes all
// future Wait calls to return false immediately.
func (s *SignalLink) Abort() {
	s.mu.Lock()
	s.aborted = true
	s.cond.Broadcast()
	s.mu.Unlock()
}
