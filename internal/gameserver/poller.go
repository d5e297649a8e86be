package gameserver

import "time"

// poller fires at a fixed interval. A zero-interval poller never fires.
type poller struct {
	ticker *time.Ticker
}

func newPoller(interval time.Duration) *poller {
	if interval <= 0 {
		return &poller{}
	}
	return &poller{ticker: time.NewTicker(interval)}
}

// C returns the tick channel, or nil when polling is disabled.
func (p *poller) C() <-chan time.Time {
	if p.ticker == nil {
		return nil
	}
	return p.ticker.C
}

func (p *poller) stop() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}
