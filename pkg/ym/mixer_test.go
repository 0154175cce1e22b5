package ym

import "testing"

func fixedSeq(events ...regEvent) eventFunc {
	i := 0
	return func() (regEvent, bool) {
		if i >= len(events) {
			return regEvent{}, false
		}
		ev := events[i]
		i++
		return ev, true
	}
}

func TestMixerOrdersByAscendingTimestamp(t *testing.T) {
	a := fixedSeq(regEvent{t: 0, reg: 1, val: 1}, regEvent{t: 5, reg: 1, val: 2})
	b := fixedSeq(regEvent{t: 2, reg: 2, val: 9})

	m := newMixer(a, b)
	var got []regEvent
	m.drain(func(t float32, reg, val byte) {
		got = append(got, regEvent{t: t, reg: reg, val: val})
	})

	want := []regEvent{{t: 0, reg: 1, val: 1}, {t: 2, reg: 2, val: 9}, {t: 5, reg: 1, val: 2}}
	if len(got) != len(want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}

func TestMixerTieBreaksByInsertionOrder(t *testing.T) {
	a := fixedSeq(regEvent{t: 0, reg: 1, val: 1})
	b := fixedSeq(regEvent{t: 0, reg: 2, val: 2})

	m := newMixer(a, b)
	ev, ok := m.next()
	if !ok || ev.reg != 1 {
		t.Fatalf("expected source A's event to win the tie, got %+v ok=%v", ev, ok)
	}
}

func TestMixerSkipsNilSources(t *testing.T) {
	a := fixedSeq(regEvent{t: 1, reg: 3, val: 7})
	m := newMixer(nil, a, nil)

	ev, ok := m.next()
	if !ok || ev.reg != 3 {
		t.Fatalf("expected the single non-nil source's event, got %+v ok=%v", ev, ok)
	}
	if _, ok := m.next(); ok {
		t.Fatalf("expected the mixer to be exhausted")
	}
}

func TestMixerEmptyYieldsNothing(t *testing.T) {
	m := newMixer()
	if _, ok := m.next(); ok {
		t.Fatalf("expected an empty mixer to yield nothing")
	}
}
