package ym

import (
	"math"
	"sync"
)

// regEvent is one timestamped register write produced inside a single
// frame by an effect unit or by the plain per-voice volume fallback.
type regEvent struct {
	t   float32
	reg byte
	val byte
}

// eventFunc is a pull-style iterator over a frame's worth of regEvents:
// Go has no borrowed generator type the way Rust's impl Iterator gives
// effects.rs, so each IterFrame call returns a closure that yields one
// event per call until exhausted.
type eventFunc func() (regEvent, bool)

// SidVoice toggles a voice's volume between 0 and a fixed level at the
// timer's tick rate, producing the classic SID-style square buzz.
type SidVoice struct {
	timer  Timer
	vol    byte
	cur    bool
	active bool
}

func (s *SidVoice) IsActive() bool { return s.active }

func (s *SidVoice) Stop() { s.active = false }

// Reset clears the timer's phase and restarts the square wave on its
// non-zero half; activity is left unchanged. Used when a YM4/5 frame asks
// for an MFP timer restart.
func (s *SidVoice) Reset() {
	s.timer.Reset()
	s.cur = false
}

func (s *SidVoice) Start(vol byte, step float32) {
	s.timer.SetStep(step)
	s.vol = vol & 0x0f
	s.active = true
}

// IterFrame returns the event stream for one frame. When the effect is
// inactive it still must advance the underlying timer so that phase is
// preserved for the next time it's started; an odd tick count flips
// cur so a later resumption starts from the correct half of the square
// wave.
func (s *SidVoice) IterFrame(limit float32, reg byte) eventFunc {
	if !s.active {
		if s.timer.step > 0 {
			if ticks := s.timer.fastForward(limit); ticks%2 == 1 {
				s.cur = !s.cur
			}
		}
		return nil
	}
	return func() (regEvent, bool) {
		ts, ok := s.timer.next(limit)
		if !ok {
			return regEvent{}, false
		}
		v := s.vol
		if s.cur {
			v = 0
		}
		s.cur = !s.cur
		return regEvent{t: ts, reg: reg, val: v}, true
	}
}

// sinusSidTable holds the 8-step cosine-shaped amplitude table Sinus SID
// modulates the target voice's volume by.
var (
	sinusSidTable     [8]byte
	sinusSidTableOnce sync.Once
)

func sinusSidTab() [8]byte {
	sinusSidTableOnce.Do(func() {
		for n := 0; n < 8; n++ {
			// Fold n onto 0..4 so entries k and 8-k are computed from the
			// same argument and come out identical after rounding.
			m := min(n, 8-n)
			v := (math.Cos(2*math.Pi*float64(m)/8)*0.5 + 0.5) * 255.0
			sinusSidTable[n] = byte(math.Round(v))
		}
	})
	return sinusSidTable
}

func sinusSidSample(phase int, vol byte) byte {
	tab := sinusSidTab()
	return byte((uint16(tab[phase&7])*uint16(vol) + 127) / 255)
}

// SinusSid modulates a voice's volume by an 8-sample cosine table rather
// than a hard on/off square. Phase is never reset by Start: reactivating
// it mid-song continues the waveform instead of restarting it.
type SinusSid struct {
	timer     Timer
	amplitude byte
	phase     int
	active    bool
}

func (s *SinusSid) Stop() { s.active = false }

func (s *SinusSid) Start(amplitude byte, step float32) {
	s.timer.SetStep(step)
	s.amplitude = amplitude & 0x0f
	s.active = true
}

func (s *SinusSid) IterFrame(limit float32, reg byte) eventFunc {
	if !s.active {
		return nil
	}
	return func() (regEvent, bool) {
		ts, ok := s.timer.next(limit)
		if !ok {
			return regEvent{}, false
		}
		v := sinusSidSample(s.phase, s.amplitude)
		s.phase = (s.phase + 1) & 7
		return regEvent{t: ts, reg: reg, val: v}, true
	}
}

// DigiDrum plays back a 4-bit PCM sample by rapidly overwriting a
// voice's volume register. Unlike SidVoice/SinusSid it survives across
// frame boundaries: Start sets [start,end) into the shared sample bank
// and cur tracks how far playback has progressed; IsActive simply asks
// whether cur has reached end yet.
type DigiDrum struct {
	timer Timer
	cur   int
	end   int
}

func (d *DigiDrum) IsActive() bool { return d.cur < d.end }

func (d *DigiDrum) Stop() { d.end = 0 }

func (d *DigiDrum) Start(start, end int, step float32) {
	d.timer.SetStep(step)
	d.timer.Reset()
	d.cur = start
	d.end = end
}

// IterFrame drains DDSamples[cur:end] at the timer's tick rate. If the
// sample runs out mid-frame, the timer is forced to the frame boundary
// and one final event restores the voice's base volume (endVol), then
// the iterator terminates for good.
func (d *DigiDrum) IterFrame(limit float32, reg byte, samples []byte, endVol byte) eventFunc {
	if !d.IsActive() {
		return nil
	}
	done := false
	return func() (regEvent, bool) {
		if done {
			return regEvent{}, false
		}
		ts, ok := d.timer.next(limit)
		if !ok {
			done = true
			return regEvent{}, false
		}
		if d.cur >= d.end {
			d.timer.forceEnd(limit)
			done = true
			return regEvent{t: ts, reg: reg, val: endVol}, true
		}
		v := samples[d.cur]
		d.cur++
		return regEvent{t: ts, reg: reg, val: v}, true
	}
}

// SyncBuzzer periodically rewrites the envelope-shape register to force
// the chipset's hardware envelope generator to resynchronize.
type SyncBuzzer struct {
	timer  Timer
	shape  byte
	active bool
}

func (b *SyncBuzzer) Stop() { b.active = false }

func (b *SyncBuzzer) Start(shape byte, step float32) {
	b.timer.SetStep(step)
	b.shape = shape & 0x0f
	b.active = true
}

func (b *SyncBuzzer) IterFrame(limit float32) eventFunc {
	if !b.active {
		return nil
	}
	return func() (regEvent, bool) {
		ts, ok := b.timer.next(limit)
		if !ok {
			return regEvent{}, false
		}
		return regEvent{t: ts, reg: EnvReg, val: b.shape}, true
	}
}
