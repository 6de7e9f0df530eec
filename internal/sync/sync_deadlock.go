//go:build openwire_deadlock

// Build with -tags openwire_deadlock to have every lock in the codec checked
// for lock order inversions and long waits.
package sync

import (
	"github.com/sasha-s/go-deadlock"
)

type (
	Mutex     = deadlock.Mutex
	RWMutex   = deadlock.RWMutex
	WaitGroup = deadlock.WaitGroup
)
