package bitbang

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"periph.io/x/conn/v3/physic"
)

func TestTickerHalfCycle(t *testing.T) {
	mock := clock.NewMock()
	tick := NewTicker(mock, 2500*physic.KiloHertz)
	defer tick.Stop()
	// A 2.5MHz MDC takes one tick per 200ns half cycle.
	const half = 200 * time.Nanosecond
	for i := 0; i < 4; i++ {
		mock.Add(half)
		if err := tick.Wait(); err != nil {
			t.Fatal(err)
		}
	}
}
