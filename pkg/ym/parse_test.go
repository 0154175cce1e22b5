package ym

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func writeDword(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeWord(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func TestParseYM3MinimalSingleFrame(t *testing.T) {
	body := make([]byte, 14)
	song, err := parseYM3(Ym3, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(song.Frames) != 1 {
		t.Fatalf("frames got %d want 1", len(song.Frames))
	}
	if song.LoopFrame != 0 {
		t.Fatalf("loop frame got %d want 0", song.LoopFrame)
	}
	if d := song.SongDuration(); d != 20*time.Millisecond {
		t.Fatalf("duration got %v want 20ms", d)
	}
}

func TestParseYM3EmptyBodyFails(t *testing.T) {
	if _, err := parseYM3(Ym3, nil); err == nil {
		t.Fatalf("expected error for empty body (no YM data)")
	}
}

func TestParseYM3WrongSizeFails(t *testing.T) {
	if _, err := parseYM3(Ym3, make([]byte, 5)); err == nil {
		t.Fatalf("expected error for a body size mod 14 not in {0, 4}")
	}
}

func TestParseYM3LoopFrameTrailer(t *testing.T) {
	body := make([]byte, 14+4)
	binary.BigEndian.PutUint32(body[14:], 7)

	song, err := parseYM3(Ym3, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if song.LoopFrame != 7 {
		t.Fatalf("loop frame got %d want 7", song.LoopFrame)
	}
}

func TestParseYM2AttachesBuiltinSamples(t *testing.T) {
	song, err := parseYM2(make([]byte, 14))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if song.Version != Ym2 {
		t.Fatalf("version got %v want Ym2", song.Version)
	}
	if len(song.DDSamples) == 0 {
		t.Fatalf("expected the built-in YM2 sample bank to be attached")
	}
	if song.DDSamplesEnds[0] != 631 {
		t.Fatalf("first sample end got %d want 631", song.DDSamplesEnds[0])
	}
}

func TestParseYMUnknownMagicFails(t *testing.T) {
	if _, err := parseYM([]byte("XXXXrest")); err == nil {
		t.Fatalf("expected error for an unrecognized signature")
	}
}

func TestParseYMTruncatedHeaderFails(t *testing.T) {
	if _, err := parseYM([]byte("YM")); err == nil {
		t.Fatalf("expected error for a stream too short to hold a magic")
	}
}

func buildYM5Body(nframes uint32, chipsetFreq uint32, frameFreq uint16) []byte {
	var buf bytes.Buffer
	buf.WriteString(leonardMagic)
	writeDword(&buf, nframes)
	writeDword(&buf, 0) // song attrs
	writeWord(&buf, 0)  // dd sample count
	writeDword(&buf, chipsetFreq)
	writeWord(&buf, frameFreq)
	writeDword(&buf, 0) // loop frame
	writeWord(&buf, 0)  // reserved
	// title, author, comments
	buf.WriteByte(0)
	buf.WriteByte(0)
	buf.WriteByte(0)
	// frame data
	buf.Write(make([]byte, int(nframes)*16))
	buf.WriteString("End!")
	return buf.Bytes()
}

func TestParseYM5RejectsZeroFrameFrequency(t *testing.T) {
	body := buildYM5Body(1, 2_000_000, 0)
	if _, err := parseYM5(Ym5, body); err == nil {
		t.Fatalf("expected error for frame_frequency == 0")
	}
}

func TestParseYM5RejectsZeroChipsetFrequency(t *testing.T) {
	body := buildYM5Body(1, 0, 50)
	if _, err := parseYM5(Ym5, body); err == nil {
		t.Fatalf("expected error for chipset frequency == 0")
	}
}

func TestParseYM5RoundTripsFrequenciesAndFrameCount(t *testing.T) {
	body := buildYM5Body(3, 2_000_000, 50)
	song, err := parseYM5(Ym5, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(song.Frames) != 3 {
		t.Fatalf("frames got %d want 3", len(song.Frames))
	}
	if song.ChipsetFrequency != 2_000_000 {
		t.Fatalf("chipset frequency got %d want 2000000", song.ChipsetFrequency)
	}
	if song.FrameFrequency != 50 {
		t.Fatalf("frame frequency got %d want 50", song.FrameFrequency)
	}
}

func TestParseYM5MissingEndTagIsNonFatal(t *testing.T) {
	body := buildYM5Body(1, 2_000_000, 50)
	body = bytes.TrimSuffix(body, []byte("End!"))
	body = append(body, []byte("Nope")...)

	if _, err := parseYM5(Ym5, body); err != nil {
		t.Fatalf("a malformed trailer must only warn, not fail: %v", err)
	}
}

func TestDdSampleByteTo4Bit(t *testing.T) {
	cases := []struct {
		name  string
		attrs SongAttrs
		in    byte
		want  byte
	}{
		{"plain unsigned", 0, 0xf0, 0x0f},
		{"signed", DigidrumSigned, 0x00, 0x08},
		{"already 4-bit", Digidrum4Bit, 0x0a, 0x0a},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ddSampleByteTo4Bit(c.in, c.attrs); got != c.want {
				t.Fatalf("got %#x want %#x", got, c.want)
			}
		})
	}
}
