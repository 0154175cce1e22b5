package ym

// peekSource wraps one eventFunc with one element of lookahead so the
// mixer can compare timestamps across sources without consuming them.
type peekSource struct {
	next    eventFunc
	peeked  regEvent
	hasPeek bool
	done    bool
}

func newPeekSource(f eventFunc) *peekSource {
	if f == nil {
		return &peekSource{done: true}
	}
	return &peekSource{next: f}
}

func (p *peekSource) peek() (regEvent, bool) {
	if p.done {
		return regEvent{}, false
	}
	if !p.hasPeek {
		ev, ok := p.next()
		if !ok {
			p.done = true
			return regEvent{}, false
		}
		p.peeked = ev
		p.hasPeek = true
	}
	return p.peeked, true
}

func (p *peekSource) take() (regEvent, bool) {
	ev, ok := p.peek()
	if ok {
		p.hasPeek = false
	}
	return ev, ok
}

// mixer performs a k-way ascending-timestamp merge of up to four effect
// event streams. Ties are broken by source insertion order (the first
// source registered wins); an exhausted source sorts as "greater" than
// any pending one, so it naturally drops out of contention.
type mixer struct {
	sources []*peekSource
}

func newMixer(fns ...eventFunc) *mixer {
	m := &mixer{}
	for _, f := range fns {
		if f != nil {
			m.sources = append(m.sources, newPeekSource(f))
		}
	}
	return m
}

// next returns the globally-next event across all sources, or false once
// every source is exhausted.
func (m *mixer) next() (regEvent, bool) {
	best := -1
	var bestEv regEvent
	for i, s := range m.sources {
		ev, ok := s.peek()
		if !ok {
			continue
		}
		if best == -1 || ev.t < bestEv.t {
			best = i
			bestEv = ev
		}
	}
	if best == -1 {
		return regEvent{}, false
	}
	return m.sources[best].take()
}

// drain streams every remaining event through record, in ascending
// timestamp order.
func (m *mixer) drain(record func(t float32, reg byte, val byte)) {
	for {
		ev, ok := m.next()
		if !ok {
			return
		}
		record(ev.t, ev.reg, ev.val)
	}
}
