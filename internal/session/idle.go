// Copyright (c) 2026 SJD-Portal. All rights reserved.
// Author: dev@sjdportal.in

package session

import (
	"sync"
	"time"
)

// # Inactivity Monitor

// IdleMonitor forces a callback after a fixed window with no activity.
//
// It is the gateway rendition of the original portal's idle timer: instead of
// pointer/key/click listeners, every authenticated request through the route
// surface calls [IdleMonitor.Touch]. The monitor runs only while a token is
// present; the session stops it on logout, after which the expiry callback
// can never fire.
//
// This is advisory, not security-critical: a stolen token bypasses it
// entirely. The backend's own token expiry is the real bound.
type IdleMonitor struct {
	mu      sync.Mutex
	timer   *time.Timer
	window  time.Duration
	stopped bool
	expire  func()
}

// NewIdleMonitor starts a monitor that invokes onExpire after window elapses
// with no [IdleMonitor.Touch]. onExpire is invoked at most once, from its own
// goroutine, and never after [IdleMonitor.Stop] has returned.
func NewIdleMonitor(window time.Duration, onExpire func()) *IdleMonitor {
	monitor := &IdleMonitor{
		window: window,
		expire: onExpire,
	}
	monitor.timer = time.AfterFunc(window, monitor.fire)
	return monitor
}

// Touch resets the countdown. It is a no-op after the monitor stopped.
func (m *IdleMonitor) Touch() {
	m.mu.Lock()
	if !m.stopped {
		m.timer.Reset(m.window)
	}
	m.mu.Unlock()
}

// Stop tears the monitor down. After Stop returns, the expiry callback will
// not be invoked. Idempotent.
func (m *IdleMonitor) Stop() {
	m.mu.Lock()
	if !m.stopped {
		m.stopped = true
		m.timer.Stop()
	}
	m.mu.Unlock()
}

// fire marks the monitor stopped before invoking the callback, so a
// re-entrant Stop (the usual logout path) is a clean no-op.
func (m *IdleMonitor) fire() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	m.mu.Unlock()

	m.expire()
}
