package ym

import "time"

// voiceEffects bundles the three mutually-exclusive effect units that can
// drive a single voice's volume register.
type voiceEffects struct {
	sid  SidVoice
	sin  SinusSid
	drum DigiDrum
}

// YmSong is a fully parsed YM file: its register frames, its DIGI-DRUM
// sample bank, and the effect state used to turn frames into a register
// write stream. It is not safe for concurrent use; ProduceNextAyFrame
// owns it exclusively for the duration of the call.
type YmSong struct {
	Version   Version
	Created   time.Time
	SongAttrs SongAttrs

	Title    string
	Author   string
	Comments string

	ChipsetFrequency uint32
	FrameFrequency   uint16
	LoopFrame        int

	Frames        []YmFrame
	DDSamples     []byte
	DDSamplesEnds []int

	cursor  int
	voices  [3]voiceEffects
	buzzer  SyncBuzzer
}

// NewSong builds a song with explicit frames and metadata, applying the
// format defaults for chipset/frame frequency (overridden later via
// WithFrequency for YM5/YM6).
func NewSong(version Version, title, author, comments string, attrs SongAttrs, frames []YmFrame) *YmSong {
	s := &YmSong{
		Version:          version,
		Title:            title,
		Author:           author,
		Comments:         comments,
		SongAttrs:        attrs,
		ChipsetFrequency: DefaultChipsetFreq,
		FrameFrequency:   DefaultFrameFreq,
		Frames:           frames,
	}
	return s
}

// WithFrequency overrides the chipset/frame frequency, used by YM5/YM6
// songs that store these explicitly in their header.
func (s *YmSong) WithFrequency(chipset uint32, frame uint16) *YmSong {
	s.ChipsetFrequency = chipset
	s.FrameFrequency = frame
	return s
}

// WithSamples attaches the DIGI-DRUM sample bank and its per-sample end
// offsets.
func (s *YmSong) WithSamples(samples []byte, ends []int) *YmSong {
	s.DDSamples = samples
	s.DDSamplesEnds = ends
	return s
}

// Cursor returns the index of the frame that the next ProduceNextAyFrame
// call will play.
func (s *YmSong) Cursor() int { return s.cursor }

// Reset rewinds playback to the first frame and clears every effect's
// state.
func (s *YmSong) Reset() {
	s.cursor = 0
	for i := range s.voices {
		s.voices[i] = voiceEffects{}
	}
	s.buzzer = SyncBuzzer{}
}

// ClockFrequency returns the chipset's register-update clock, which for
// every YM dialect equals ChipsetFrequency.
func (s *YmSong) ClockFrequency() uint32 { return s.ChipsetFrequency }

// FrameCycles is the number of chip cycles spanned by one video frame.
func (s *YmSong) FrameCycles() float32 {
	return float32(s.ChipsetFrequency) / float32(s.FrameFrequency)
}

// TimerInterval converts an MFP timer divisor into a chip-cycle step.
func (s *YmSong) TimerInterval(divisor uint32) float32 {
	return float32(s.ChipsetFrequency) * float32(divisor) / float32(MfpTimerFrequency)
}

// SongDuration returns the song's total playing time, ignoring looping.
func (s *YmSong) SongDuration() time.Duration {
	if s.FrameFrequency == 0 {
		return 0
	}
	frames := time.Duration(len(s.Frames))
	return frames * time.Second / time.Duration(s.FrameFrequency)
}

// SampleDataRange returns the [start,end) byte range of DDSamples that
// belongs to the given sample index. A frame may legally name a sample
// index beyond the file's declared sample count (the field is 5 bits
// wide and every value 0-31 is valid input); that case simply returns
// an empty range, leaving the DIGI-DRUM effect inactive. It panics only
// for a sample index outside the format's fixed 32-entry table.
func (s *YmSong) SampleDataRange(sample int) (start, end int) {
	if sample < 0 || sample >= MaxDDSamples {
		panic("ym: digi-drum sample index out of range")
	}
	end = s.DDSamplesEnds[sample]
	if sample == 0 {
		start = 0
	} else {
		start = s.DDSamplesEnds[sample-1]
	}
	return start, end
}

// fxUpdate starts the effect unit `fx` on voice chan_, deriving its step
// from divisor and reading its amplitude/shape from vol.
func (s *YmSong) fxUpdate(fx FxType, chan_ int, divisor uint32, vol byte) {
	step := s.TimerInterval(divisor)
	v := &s.voices[chan_]
	switch fx {
	case FxSidVoice:
		v.sid.Start(vol&0x0f, step)
	case FxSinusSid:
		v.sin.Start(vol&0x0f, step)
	case FxDigiDrum:
		start, end := s.SampleDataRange(int(vol))
		v.drum.Start(start, end, step)
	case FxSyncBuzz:
		s.buzzer.Start(vol&0x0f, step)
	}
}
