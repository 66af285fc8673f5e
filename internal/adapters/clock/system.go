package clock

import (
	"time"

	"github.com/dloop-protocol/dloop/internal/usecase"
)

// System is the wall clock in UTC
type System struct{}

// NewSystem creates a system clock
func NewSystem() System {
	return System{}
}

// Now returns the current time
func (System) Now() time.Time {
	return time.Now().UTC()
}

var _ usecase.Clock = System{}
