package handlers

import "sync"

// gate lets one upstream request per visitor through at a time, the
// server-side version of a submit button that shows a spinner.
type gate struct {
	inflight sync.Map // key -> struct{}
}

// enter returns a release func, or false if key already has a request in flight.
func (g *gate) enter(key string) (func(), bool) {
	if key == "" {
		return func() {}, true
	}
	if _, busy := g.inflight.LoadOrStore(key, struct{}{}); busy {
		return nil, false
	}
	return func() { g.inflight.Delete(key) }, true
}
