package ym

// FxChannel identifies which voice (if any) an fx-control nibble targets.
type FxChannel int

const (
	ChanIdle FxChannel = iota
	ChanA
	ChanB
	ChanC
)

// Channel returns the 0-based voice index (0=A,1=B,2=C) and whether the
// control nibble actually selects a voice.
func (c FxChannel) Channel() (int, bool) {
	if c == ChanIdle {
		return 0, false
	}
	return int(c) - 1, true
}

// FxType is the special-effect kind a YM6 frame selects via the top two
// bits of an fx-control byte.
type FxType int

const (
	FxSidVoice FxType = iota
	FxDigiDrum
	FxSinusSid
	FxSyncBuzz
)

// fx control byte bit layout (frame bytes 1 and 3, high nibble):
//
//	bit 7 6 5 4
//	    F F C C     YM6: FF = effect type, CC = channel select
//	    - R C C     YM4/5 SID:   R = MFP timer restart, CC = channel select
//	    - - C C     YM4/5 DigiDrum: CC = channel select
const (
	chanControlMask = 0b0011_0000
	chanShift       = 4
	mfpRestartBit   = 0b0100_0000
	fxTypeMask      = 0b1100_0000
	fxTypeShift     = 6
)

// fxCtrl wraps one fx-control byte (frame data[1] or data[3]).
type fxCtrl byte

func (f fxCtrl) channel() FxChannel {
	return FxChannel((byte(f) & chanControlMask) >> chanShift)
}

func (f fxCtrl) isTimerRestart() bool {
	return byte(f)&mfpRestartBit != 0
}

func (f fxCtrl) fxType() FxType {
	return FxType((byte(f) & fxTypeMask) >> fxTypeShift)
}

// tsChannel decodes a YM4/5 SID-voice control nibble: whether the MFP
// timer should be restarted, and which voice (if any) is targeted.
func (f fxCtrl) tsChannel() (resetTimer bool, chan_ int, ok bool) {
	ch := f.channel()
	c, has := ch.Channel()
	if !has {
		return false, 0, false
	}
	return f.isTimerRestart(), c, true
}

// ddChannel decodes a YM4/5 DigiDrum control nibble.
func (f fxCtrl) ddChannel() (chan_ int, ok bool) {
	ch := f.channel()
	return ch.Channel()
}

// fx6Channel decodes a YM6 control nibble: effect type plus voice.
func (f fxCtrl) fx6Channel() (fx FxType, chan_ int, ok bool) {
	ch := f.channel()
	c, has := ch.Channel()
	if !has {
		return 0, 0, false
	}
	return f.fxType(), c, true
}

// mfpPrediv maps the upper 3 bits of the noise-period / volume-A register
// (frame bytes 6/8) to the MFP timer's prescaler value.
var mfpPrediv = [8]uint32{0, 4, 10, 16, 50, 64, 100, 200}

// calculateTimerDivisor combines the 3-bit prescaler selector (from the
// top bits of prediv3) with the 8-bit divisor byte. A zero result means
// the effect's timer is disabled this frame.
func calculateTimerDivisor(prediv3, div8 byte) (divisor uint32, ok bool) {
	p := mfpPrediv[(prediv3>>5)&7]
	d := p * uint32(div8)
	if d == 0 {
		return 0, false
	}
	return d, true
}
