package ym

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/olivierh59500/ym-player/pkg/lzh"
)

const leonardMagic = "LeOnArD!"

// ParseAny reads a YM song from r, transparently unwrapping an LHA
// envelope if one is present. fallbackTitle is used as Title when the
// song carries none of its own and the stream isn't an LHA archive (an
// LHA archive instead contributes its stored entry name).
func ParseAny(r io.Reader, fallbackTitle string) (*YmSong, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	title := fallbackTitle
	var created time.Time
	body := raw

	if lzh.IsLZHCompressed(raw) {
		decoded, entry, err := lzh.DecompressWithEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("ym: decompressing lha envelope: %w", err)
		}
		body = decoded
		if entry.Name != "" {
			title = entry.Name
		}
		created = entry.ModTime
	}

	song, err := parseYM(body)
	if err != nil {
		return nil, err
	}
	if song.Title == "" {
		song.Title = title
	}
	song.Created = created
	return song, nil
}

func parseYM(data []byte) (*YmSong, error) {
	if len(data) < 4 {
		return nil, errEOF("file ended prematurely")
	}

	magic := string(data[:4])
	switch magic {
	case "YM2!":
		return parseYM2(data[4:])
	case "YM3!":
		return parseYM3(Ym3, data[4:])
	case "YM3b":
		return parseYM3(Ym3, data[4:])
	case "YM4!":
		return parseYM4(data[4:])
	case "YM5!":
		return parseYM5(Ym5, data[4:])
	case "YM6!":
		return parseYM5(Ym6, data[4:])
	default:
		return nil, errInvalid("unrecognized file signature")
	}
}

// parseYM3 parses the flat 14-byte-interleaved-register YM3!/YM3b/YM2!
// body. A body size of size%14==4 carries a trailing big-endian u32
// loop frame (YM3b's defining feature, but accepted for any magic that
// happens to have one, matching the original parser's delegation).
func parseYM3(version Version, body []byte) (*YmSong, error) {
	size := len(body)
	loopFrame := 0

	switch size % 14 {
	case 0:
		// no trailing loop frame
	case 4:
		tail := body[size-4:]
		loopFrame = int(binary.BigEndian.Uint32(tail))
		body = body[:size-4]
	default:
		return nil, errInvalid("wrong file size")
	}

	nframes := len(body) / 14
	if nframes == 0 {
		return nil, errInvalid("no YM data")
	}

	frames := readInterleavedFrames(body, nframes, 14)
	song := NewSong(version, "", "", "", 0, frames)
	song.LoopFrame = loopFrame
	return song, nil
}

func parseYM2(body []byte) (*YmSong, error) {
	song, err := parseYM3(Ym2, body)
	if err != nil {
		return nil, err
	}
	song.Version = Ym2
	song.WithSamples(builtinYm2Samples(), ym2SampleEnds)
	return song, nil
}

// ym4Common holds the fields every YM4/5/6 header shares before the
// dialect-specific timing block.
type ym4Common struct {
	nframes   int
	songAttrs SongAttrs
	ddCount   int
}

func parseYM4Common(r *bytes.Reader) (ym4Common, error) {
	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return ym4Common{}, errEOF("file ended prematurely")
	}
	if string(magic[:]) != leonardMagic {
		return ym4Common{}, errInvalid("unrecognized file verify signature")
	}

	nframes, err := readDword(r)
	if err != nil {
		return ym4Common{}, err
	}
	if nframes == 0 {
		return ym4Common{}, errInvalid("no YM data")
	}

	attrs, err := readDword(r)
	if err != nil {
		return ym4Common{}, err
	}

	ddCount, err := readWord(r)
	if err != nil {
		return ym4Common{}, err
	}
	if ddCount > MaxDDSamples {
		return ym4Common{}, errInvalid("too many digi-drum samples")
	}

	return ym4Common{
		nframes:   int(nframes),
		songAttrs: SongAttrs(attrs),
		ddCount:   int(ddCount),
	}, nil
}

func parseYM4(body []byte) (*YmSong, error) {
	r := bytes.NewReader(body)
	common, err := parseYM4Common(r)
	if err != nil {
		return nil, err
	}

	loopFrame, err := readDword(r)
	if err != nil {
		return nil, err
	}

	samples, ends, err := readDigiDrumSamples(r, common.ddCount, common.songAttrs)
	if err != nil {
		return nil, err
	}

	title, author, comments, err := readSongMeta(r)
	if err != nil {
		return nil, err
	}

	frames, err := readSongFramesAndEndTag(r, common.nframes, common.songAttrs)
	if err != nil {
		return nil, err
	}

	song := NewSong(Ym4, title, author, comments, common.songAttrs, frames)
	song.LoopFrame = int(loopFrame)
	song.WithSamples(samples, ends)
	return song, nil
}

func parseYM5(version Version, body []byte) (*YmSong, error) {
	r := bytes.NewReader(body)
	common, err := parseYM4Common(r)
	if err != nil {
		return nil, err
	}

	chipsetFreq, err := readDword(r)
	if err != nil {
		return nil, err
	}
	if chipsetFreq == 0 {
		return nil, errInvalid("chipset period must not be 0")
	}

	frameFreq, err := readWord(r)
	if err != nil {
		return nil, err
	}
	if frameFreq == 0 {
		return nil, errInvalid("frame period must not be 0")
	}

	loopFrame, err := readDword(r)
	if err != nil {
		return nil, err
	}

	reserved, err := readWord(r)
	if err != nil {
		return nil, err
	}
	if reserved != 0 {
		return nil, errInvalid("unknown additional header data")
	}

	samples, ends, err := readDigiDrumSamples(r, common.ddCount, common.songAttrs)
	if err != nil {
		return nil, err
	}

	title, author, comments, err := readSongMeta(r)
	if err != nil {
		return nil, err
	}

	frames, err := readSongFramesAndEndTag(r, common.nframes, common.songAttrs)
	if err != nil {
		return nil, err
	}

	song := NewSong(version, title, author, comments, common.songAttrs, frames)
	song.WithFrequency(chipsetFreq, uint16(frameFreq))
	song.LoopFrame = int(loopFrame)
	song.WithSamples(samples, ends)
	return song, nil
}

func readDigiDrumSamples(r *bytes.Reader, count int, attrs SongAttrs) ([]byte, []int, error) {
	ends := make([]int, MaxDDSamples)
	var all []byte
	offset := 0

	for i := 0; i < count; i++ {
		length, err := readDword(r)
		if err != nil {
			return nil, ends, err
		}
		raw := make([]byte, length)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, ends, errEOF("file ended prematurely")
		}
		for _, b := range raw {
			all = append(all, ddSampleByteTo4Bit(b, attrs))
		}
		offset += len(raw)
		ends[i] = offset
	}
	return all, ends, nil
}

func ddSampleByteTo4Bit(b byte, attrs SongAttrs) byte {
	if attrs.Is4Bit() {
		return b & 0x0f
	}
	if attrs.IsSigned() {
		return (b + 0x80) >> 4
	}
	return b >> 4
}

func readSongMeta(r *bytes.Reader) (title, author, comments string, err error) {
	if title, err = readCString(r); err != nil {
		return
	}
	if author, err = readCString(r); err != nil {
		return
	}
	if comments, err = readCString(r); err != nil {
		return
	}
	return
}

// readSongFramesAndEndTag reads the remaining nframes*16 bytes of frame
// data plus whatever trailer follows, logging (not failing) when the
// trailer isn't the expected "End!" tag.
func readSongFramesAndEndTag(r *bytes.Reader, nframes int, attrs SongAttrs) ([]YmFrame, error) {
	rest := make([]byte, r.Len())
	if _, err := io.ReadFull(r, rest); err != nil {
		return nil, errEOF("file ended prematurely")
	}
	if len(rest) < nframes*16 {
		return nil, errEOF("file ended prematurely")
	}
	body := rest[:nframes*16]
	trailer := rest[nframes*16:]
	if len(trailer) < 4 || string(trailer[:4]) != "End!" {
		log.Printf("ym: missing or malformed End! trailer")
	}

	if attrs.IsInterleaved() {
		return readInterleavedFrames(body, nframes, 16), nil
	}
	return readNonInterleavedFrames(body, nframes), nil
}

// readInterleavedFrames un-interleaves a stream stored register-major
// (all register-0 bytes, then all register-1 bytes, ...) into per-frame
// YmFrames. Unused trailing bytes in each 16-byte YmFrame (YM2/YM3's
// stride is 14, not 16) are left zero.
func readInterleavedFrames(body []byte, nframes, stride int) []YmFrame {
	frames := make([]YmFrame, nframes)
	for reg := 0; reg < stride; reg++ {
		col := body[reg*nframes : (reg+1)*nframes]
		for i := 0; i < nframes; i++ {
			frames[i].Data[reg] = col[i]
		}
	}
	return frames
}

func readNonInterleavedFrames(body []byte, nframes int) []YmFrame {
	frames := make([]YmFrame, nframes)
	for i := 0; i < nframes; i++ {
		copy(frames[i].Data[:], body[i*16:(i+1)*16])
	}
	return frames
}

func readDword(r *bytes.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errEOF("file ended prematurely")
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func readWord(r *bytes.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errEOF("file ended prematurely")
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func readCString(r *bytes.Reader) (string, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if len(buf) == 0 {
				return "", errEOF("file ended prematurely")
			}
			break
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return strings.ToValidUTF8(string(buf), "�"), nil
}
