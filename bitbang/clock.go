package bitbang

import (
	"github.com/benbjohnson/clock"

	"periph.io/x/conn/v3/physic"
)

// Ticker is a Clock driven by a free-running ticker at twice
// the MDC frequency, one tick per half cycle.
type Ticker struct {
	t *clock.Ticker
}

// NewTicker returns a Ticker producing the given MDC frequency.
// Pass clock.New() outside of tests. The datasheet of the
// managed device specifies the maximum frequency; 2.5MHz is the
// common figure.
func NewTicker(c clock.Clock, mdc physic.Frequency) *Ticker {
	return &Ticker{t: c.Ticker(mdc.Period() / 2)}
}

// Wait blocks until the next half-cycle boundary. It never
// fails.
func (t *Ticker) Wait() error {
	<-t.t.C
	return nil
}

// Stop releases the ticker. Wait must not be called after Stop.
func (t *Ticker) Stop() {
	t.t.Stop()
}
