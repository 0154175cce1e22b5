package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/olivierh59500/ym-player/pkg/audio"
	"github.com/olivierh59500/ym-player/pkg/ym"
)

var (
	sampleRate = flag.Int("rate", 44100, "Sample rate (Hz)")
	bufferSize = flag.Int("buffer", 2048, "Buffer size")
	loop       = flag.Bool("loop", false, "Loop playback")
	volume     = flag.Float64("volume", 1.0, "Volume (0.0 to 10.0)")
	gain       = flag.Float64("gain", 1.0, "Audio gain multiplier")
	lowpass    = flag.Bool("lowpass", true, "Enable lowpass filter")
	info       = flag.Bool("info", false, "Show file info only")
	output     = flag.String("output", "oto", "Output backend (oto, wav, null)")
	wavFile    = flag.String("wav", "", "Output WAV file (when using wav output)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <ym-file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "YM Player - Play Atari ST / Amstrad CPC YM music files\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	ymFile := flag.Arg(0)

	if _, err := os.Stat(ymFile); os.IsNotExist(err) {
		log.Fatalf("File not found: %s", ymFile)
	}

	f, err := os.Open(ymFile)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	fmt.Printf("Loading %s...\n", filepath.Base(ymFile))
	song, err := ym.ParseAny(f, strings.TrimSuffix(filepath.Base(ymFile), filepath.Ext(ymFile)))
	if err != nil {
		log.Fatalf("Failed to load YM file: %v", err)
	}

	duration := song.SongDuration()
	fmt.Printf("\n")
	fmt.Printf("Title:    %s\n", song.Title)
	fmt.Printf("Author:   %s\n", song.Author)
	fmt.Printf("Comment:  %s\n", song.Comments)
	fmt.Printf("Format:   %s\n", song.Version)
	fmt.Printf("Duration: %s\n", formatDuration(duration))
	fmt.Printf("\n")

	if *info {
		return
	}

	renderer := audio.NewSongRenderer(song, *sampleRate, *loop)
	renderer.SetFilter(*lowpass)

	var audioOut audio.Output

	switch *output {
	case "oto":
		audioOut, err = audio.NewStreamingOtoOutput()
		if err != nil {
			fmt.Printf("Warning: Failed to create audio output (%v)\n", err)
			fmt.Printf("Falling back to timing-based output...\n")
			audioOut, err = audio.NewFallbackOutput()
		}
	case "wav":
		if *wavFile == "" {
			*wavFile = strings.TrimSuffix(ymFile, filepath.Ext(ymFile)) + ".wav"
		}
		audioOut, err = NewWAVOutput(*wavFile)
	case "null":
		audioOut = &NullOutput{}
		err = nil
	default:
		log.Fatalf("Unknown output backend: %s", *output)
	}

	if err != nil {
		log.Fatalf("Failed to create audio output: %v", err)
	}

	gained := &gainRenderer{inner: renderer, gain: *volume * *gain}
	player := audio.NewPlayer(gained, audioOut)
	if err := player.Start(*sampleRate, *bufferSize); err != nil {
		log.Fatalf("Failed to start playback: %v", err)
	}
	defer player.Stop()

	fmt.Printf("Playing... (Press Ctrl+C to stop)\n")
	if *loop {
		fmt.Printf("Looping enabled\n")
	}
	fmt.Printf("\n")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-sigChan:
			fmt.Printf("\n\nStopping...\n")
			return

		case <-ticker.C:
			if !player.Playing() {
				fmt.Printf("\n\nPlayback finished.\n")
				return
			}
			pos := renderer.Position()
			if duration > 0 {
				percent := float64(pos) / float64(duration) * 100
				fmt.Printf("\r[%s] %s / %s (%.1f%%)",
					makeProgressBar(percent, 30),
					formatDuration(pos),
					formatDuration(duration),
					percent)
			}
		}
	}
}

// gainRenderer scales an inner renderer's PCM output by a fixed gain,
// clamping on overflow, so the CLI's -volume/-gain flags can ride along
// with audio.Player's own render/write loop instead of duplicating it.
type gainRenderer struct {
	inner audio.Renderer
	gain  float64
}

func (g *gainRenderer) Compute(buffer []int16, nbSample int) bool {
	more := g.inner.Compute(buffer, nbSample)
	if g.gain != 1.0 {
		for i := range buffer {
			v := float64(buffer[i]) * g.gain
			switch {
			case v > 32767:
				buffer[i] = 32767
			case v < -32768:
				buffer[i] = -32768
			default:
				buffer[i] = int16(v)
			}
		}
	}
	return more
}

func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	minutes := seconds / 60
	seconds %= 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func makeProgressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("=", filled)
	if filled < width {
		bar += ">"
		bar += strings.Repeat(" ", width-filled-1)
	}

	return bar
}

// NullOutput discards all audio.
type NullOutput struct{}

func (n *NullOutput) Open(sampleRate, channels, bufferSize int) error { return nil }

func (n *NullOutput) Close() error { return nil }

func (n *NullOutput) Write(samples []int16) error {
	duration := time.Duration(len(samples)) * time.Second / time.Duration(44100)
	time.Sleep(duration)
	return nil
}

func (n *NullOutput) IsPlaying() bool { return true }

// WAVOutput writes audio to a WAV file.
type WAVOutput struct {
	file       *os.File
	filename   string
	sampleRate int
	channels   int
	written    int64
}

func NewWAVOutput(filename string) (*WAVOutput, error) {
	return &WAVOutput{filename: filename}, nil
}

func (w *WAVOutput) Open(sampleRate, channels, bufferSize int) error {
	w.sampleRate = sampleRate
	w.channels = channels

	file, err := os.Create(w.filename)
	if err != nil {
		return err
	}
	w.file = file

	header := make([]byte, 44)
	copy(header[0:4], []byte("RIFF"))
	binary.LittleEndian.PutUint32(header[4:8], 0)
	copy(header[8:12], []byte("WAVE"))
	copy(header[12:16], []byte("fmt "))
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	byteRate := sampleRate * channels * 2
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	blockAlign := channels * 2
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], []byte("data"))
	binary.LittleEndian.PutUint32(header[40:44], 0)

	_, err = w.file.Write(header)
	return err
}

func (w *WAVOutput) Close() error {
	if w.file == nil {
		return nil
	}

	w.file.Seek(4, 0)
	fileSize := uint32(w.written + 36)
	binary.Write(w.file, binary.LittleEndian, fileSize)

	w.file.Seek(40, 0)
	dataSize := uint32(w.written)
	binary.Write(w.file, binary.LittleEndian, dataSize)

	return w.file.Close()
}

func (w *WAVOutput) Write(samples []int16) error {
	if w.file == nil {
		return fmt.Errorf("file not open")
	}

	bytes := make([]byte, len(samples)*2)
	for i, sample := range samples {
		bytes[i*2] = byte(sample)
		bytes[i*2+1] = byte(sample >> 8)
	}

	n, err := w.file.Write(bytes)
	w.written += int64(n)
	return err
}

func (w *WAVOutput) IsPlaying() bool { return w.file != nil }
