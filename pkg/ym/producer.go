package ym

// RegisterWriteFunc receives one timestamped AY/YM2149 register write.
// t is a chip-cycle offset within the current frame, always in
// [0, FrameCycles()).
type RegisterWriteFunc func(t float32, reg byte, val byte)

// playYm2Frame emits the envelope write and starts the built-in-bank
// DIGI-DRUM effect that is always hard-wired to voice C in the YM2
// dialect.
func (s *YmSong) playYm2Frame(frame YmFrame, rec RegisterWriteFunc) {
	if frame.Data[EnvReg] != 0xff {
		rec(0, EnvPerFineReg, frame.Data[EnvPerFineReg])
		rec(0, EnvPerCoarse, 0)
		rec(0, EnvReg, 0x10)
	}

	volC := frame.Data[VolCReg]
	if volC&0x80 == 0x80 {
		sample := int(volC & 0x7f)
		prediv := uint32(frame.Data[EnvPerCoarse])
		if prediv != 0 && sample < len(ym2SampleEnds) {
			divisor := 4 * prediv
			step := s.TimerInterval(divisor)
			end := ym2SampleEnds[sample]
			start := 0
			if sample > 0 {
				start = ym2SampleEnds[sample-1]
			}
			s.voices[2].drum.Start(start, end, step)
		}
	}
}

// playYm3Frame emits the envelope-period bytes verbatim and, unless the
// frame opts out with 0xFF, the envelope shape. Shared by every dialect
// from YM3 onward.
func (s *YmSong) playYm3Frame(frame YmFrame, rec RegisterWriteFunc) {
	rec(0, EnvPerFineReg, frame.Data[EnvPerFineReg])
	rec(0, EnvPerCoarse, frame.Data[EnvPerCoarse])
	if shape := frame.Data[EnvReg]; shape != 0xff {
		rec(0, EnvReg, shape)
	}
}

func (s *YmSong) playYm5Frame(frame YmFrame, rec RegisterWriteFunc) {
	s.playYm3Frame(frame, rec)

	if reset, chan_, ok := frame.fx0().tsChannel(); ok {
		if divisor, dok := frame.timerDivisor0(); dok {
			if reset {
				s.voices[chan_].sid.Reset()
			}
			s.fxUpdate(FxSidVoice, chan_, divisor, frame.Vol(chan_))
		}
	}
	if chan_, ok := frame.fx1().ddChannel(); ok {
		if divisor, dok := frame.timerDivisor1(); dok {
			s.fxUpdate(FxDigiDrum, chan_, divisor, frame.Vol(chan_))
		}
	}
}

func (s *YmSong) playYm6Frame(frame YmFrame, rec RegisterWriteFunc) {
	s.playYm3Frame(frame, rec)

	if fx, chan_, ok := frame.fx0().fx6Channel(); ok {
		if divisor, dok := frame.timerDivisor0(); dok {
			s.fxUpdate(fx, chan_, divisor, frame.Vol(chan_))
		}
	}
	if fx, chan_, ok := frame.fx1().fx6Channel(); ok {
		if divisor, dok := frame.timerDivisor1(); dok {
			s.fxUpdate(fx, chan_, divisor, frame.Vol(chan_))
		}
	}
}

// voiceChanMixBit is the mixer-register bit pair (tone enable, noise
// enable) forced to 1 when DigiDrum takes over a voice, so the chip
// actually lets the written volume through instead of gating it.
func voiceChanMixBit(voice int) byte {
	return 0b001001 << uint(voice)
}

// ProduceNextAyFrame interprets the current frame, advances every
// effect unit by one frame, and streams the resulting register writes
// to rec in ascending timestamp order. It returns true when playback
// wrapped back to the loop point (i.e. this was the song's last frame).
func (s *YmSong) ProduceNextAyFrame(rec RegisterWriteFunc) bool {
	for i := range s.voices {
		s.voices[i].sid.Stop()
		s.voices[i].sin.Stop()
	}
	s.buzzer.Stop()

	frame := s.Frames[s.cursor]

	switch s.Version {
	case Ym2:
		s.playYm2Frame(frame, rec)
	case Ym3:
		s.playYm3Frame(frame, rec)
	case Ym4, Ym5:
		s.playYm5Frame(frame, rec)
	case Ym6:
		s.playYm6Frame(frame, rec)
	}

	// Effect starts above only touch state; re-read the frame so the
	// base register burst below reflects the unmodified source bytes.
	frame = s.Frames[s.cursor]

	for reg := byte(0); reg < MixerReg; reg++ {
		rec(0, reg, frame.Data[reg])
	}

	chanMix := frame.Data[MixerReg]
	frameCycles := s.FrameCycles()

	var iters [3]eventFunc
	for voice := 0; voice < 3; voice++ {
		reg := byte(VolAReg + voice)
		v := &s.voices[voice]

		if it := v.sid.IterFrame(frameCycles, reg); it != nil {
			iters[voice] = it
			continue
		}
		if it := v.sin.IterFrame(frameCycles, reg); it != nil {
			iters[voice] = it
			continue
		}
		if it := v.drum.IterFrame(frameCycles, reg, s.DDSamples, frame.Vol(voice)); it != nil {
			iters[voice] = it
			chanMix |= voiceChanMixBit(voice)
			continue
		}
		rec(0, reg, frame.Vol(voice))
	}

	rec(0, MixerReg, chanMix)

	buzzerIter := s.buzzer.IterFrame(frameCycles)
	m := newMixer(iters[0], iters[1], iters[2], buzzerIter)
	m.drain(rec)

	next := (s.cursor + 1) % len(s.Frames)
	if next == 0 {
		loop := s.LoopFrame
		if loop >= len(s.Frames) {
			loop = len(s.Frames) - 1
		}
		s.cursor = loop
		return true
	}
	s.cursor = next
	return false
}
