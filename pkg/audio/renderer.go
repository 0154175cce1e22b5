package audio

import (
	"time"

	"github.com/olivierh59500/ym-player/pkg/ay2149"
	"github.com/olivierh59500/ym-player/pkg/ym"
)

// Renderer produces PCM into buffer, nbSample samples at a time, the
// way Player's audio loop expects. It reports false once there is
// nothing further to render.
type Renderer interface {
	Compute(buffer []int16, nbSample int) bool
}

// SongRenderer drives a *ym.YmSong frame by frame and renders its
// register writes through an *ay2149.Chip, the same vblNbSample /
// innerSamplePos bookkeeping the original player used to reconcile the
// song's frame rate against the audio replay rate.
type SongRenderer struct {
	song       *ym.YmSong
	chip       *ay2149.Chip
	replayRate int
	frameRate  int
	loop       bool

	innerSamplePos int
	framesPlayed   int
	over           bool
}

// NewSongRenderer builds a renderer for song, rendering at replayRate
// samples/sec. When loop is false, Compute reports false (and begins
// emitting silence) the first time the song wraps to its loop point.
func NewSongRenderer(song *ym.YmSong, replayRate int, loop bool) *SongRenderer {
	chip := ay2149.New(song.ClockFrequency(), int32(replayRate))
	return &SongRenderer{
		song:       song,
		chip:       chip,
		replayRate: replayRate,
		frameRate:  int(song.FrameFrequency),
		loop:       loop,
	}
}

// SetFilter toggles the chip's lowpass smoothing.
func (r *SongRenderer) SetFilter(on bool) { r.chip.SetFilter(on) }

func (r *SongRenderer) advanceFrame() {
	wrapped := r.song.ProduceNextAyFrame(func(_ float32, reg, val byte) {
		r.chip.WriteRegister(reg, val)
	})
	r.framesPlayed++
	if wrapped && !r.loop {
		r.over = true
	}
}

// Position returns how much of the song has been rendered so far,
// counting every frame played (including repeated loop passes).
func (r *SongRenderer) Position() time.Duration {
	if r.frameRate <= 0 {
		return 0
	}
	return time.Duration(r.framesPlayed) * time.Second / time.Duration(r.frameRate)
}

// Compute fills buffer[:nbSample] with rendered PCM, advancing the
// song one frame at a time as sample position crosses each frame
// boundary. It returns false once the (non-looping) song has ended,
// matching Update's bMusicOver contract.
func (r *SongRenderer) Compute(buffer []int16, nbSample int) bool {
	if r.over {
		for i := 0; i < nbSample; i++ {
			buffer[i] = 0
		}
		return false
	}

	if r.frameRate <= 0 {
		r.frameRate = 50
	}
	vblNbSample := r.replayRate / r.frameRate
	if vblNbSample <= 0 {
		vblNbSample = 1
	}

	out := buffer
	remaining := nbSample
	for remaining > 0 {
		toCompute := vblNbSample - r.innerSamplePos
		if toCompute > remaining {
			toCompute = remaining
		}

		r.innerSamplePos += toCompute
		if r.innerSamplePos >= vblNbSample {
			r.advanceFrame()
			r.innerSamplePos -= vblNbSample
		}

		for i := 0; i < toCompute; i++ {
			out[i] = r.chip.NextSample()
		}
		out = out[toCompute:]
		remaining -= toCompute

		if r.over {
			for i := range out {
				out[i] = 0
			}
			return false
		}
	}
	return true
}
