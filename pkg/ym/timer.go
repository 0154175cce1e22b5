package ym

// Timer is a fractional-step accumulator in chip-cycle units, shared by
// every special effect to derive its sub-frame tick timestamps. It
// carries its phase across frame boundaries: a frame that ends mid-tick
// resumes from the same fractional position on the next call.
type Timer struct {
	current float32
	step    float32
}

// Reset clears the accumulated phase without touching the step.
func (t *Timer) Reset() {
	t.current = 0
}

// SetStep installs a new tick interval. step must be a sane positive
// cycle count; special effects never call this with a zero divisor
// because calculateTimerDivisor already filters those out upstream.
func (t *Timer) SetStep(step float32) {
	if step <= 1e-6 {
		panic("ym: timer step must be positive")
	}
	t.step = step
}

// next returns the next tick timestamp strictly below limit, carrying
// the remainder into t.current when the frame is exhausted.
func (t *Timer) next(limit float32) (float32, bool) {
	if t.current < limit {
		ts := t.current
		t.current += t.step
		return ts, true
	}
	t.current -= limit
	return 0, false
}

// forceEnd snaps the timer to the frame boundary, used by DigiDrum when
// it runs out of sample data mid-frame: the terminating event keeps the
// current tick's timestamp, and no further tick is produced this frame.
func (t *Timer) forceEnd(limit float32) {
	t.current = limit
}

// fastForward advances the timer as if it had been iterated without
// producing events, and returns how many ticks were consumed. Used to
// keep an inactive SID voice's phase coherent with where it would have
// been had it kept oscillating.
func (t *Timer) fastForward(limit float32) uint32 {
	rest := limit - t.current
	if rest <= 0 {
		t.current = -rest
		return 0
	}
	ticks := uint32(int64(rest / t.step))
	t.current = 0
	if r := float32Mod(rest, t.step); r > 0 {
		t.current = t.step - r
		ticks++
	}
	return ticks
}

// float32Mod is a minimal floating-point remainder helper; avoids
// importing math for a single operation used only here.
func float32Mod(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	n := int64(a / b)
	return a - float32(n)*b
}
