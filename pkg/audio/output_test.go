package audio

import (
	"testing"
	"time"
)

// fixedRenderer renders a constant sample for a fixed number of calls,
// then reports it is out of song.
type fixedRenderer struct {
	sample   int16
	callsLeft int
}

func (r *fixedRenderer) Compute(buffer []int16, nbSample int) bool {
	if r.callsLeft <= 0 {
		for i := range buffer {
			buffer[i] = 0
		}
		return false
	}
	r.callsLeft--
	for i := range buffer {
		buffer[i] = r.sample
	}
	return r.callsLeft > 0
}

func TestPlayerDrainsRendererIntoBufferOutput(t *testing.T) {
	renderer := &fixedRenderer{sample: 1234, callsLeft: 3}
	out := NewBufferOutput()
	player := NewPlayer(renderer, out)

	if err := player.Start(44100, 16); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for player.Playing() {
		select {
		case <-deadline:
			t.Fatalf("player never finished")
		case <-time.After(time.Millisecond):
		}
	}

	player.Stop()

	got := out.GetBuffer()
	if len(got) == 0 {
		t.Fatalf("expected some rendered samples to reach the output")
	}
	for _, s := range got {
		if s != 1234 {
			t.Fatalf("got sample %d want 1234", s)
		}
	}
}

func TestPlayerStopIsSafeAfterNaturalCompletion(t *testing.T) {
	renderer := &fixedRenderer{sample: 1, callsLeft: 1}
	out := NewBufferOutput()
	player := NewPlayer(renderer, out)

	if err := player.Start(44100, 8); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for player.Playing() {
		select {
		case <-deadline:
			t.Fatalf("player never finished")
		case <-time.After(time.Millisecond):
		}
	}

	done := make(chan struct{})
	go func() {
		player.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop deadlocked after the loop had already finished on its own")
	}
}

func TestPlayerStartTwiceFails(t *testing.T) {
	renderer := &fixedRenderer{sample: 1, callsLeft: 100000}
	out := NewBufferOutput()
	player := NewPlayer(renderer, out)

	if err := player.Start(44100, 8); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	defer player.Stop()

	if err := player.Start(44100, 8); err == nil {
		t.Fatalf("expected the second Start to fail while already playing")
	}
}

func TestBufferOutputAccumulatesAndClears(t *testing.T) {
	out := NewBufferOutput()
	if err := out.Open(44100, 1, 64); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := out.Write([]int16{1, 2, 3}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if got := out.GetBuffer(); len(got) != 3 {
		t.Fatalf("got %d samples want 3", len(got))
	}
	out.Clear()
	if got := out.GetBuffer(); len(got) != 0 {
		t.Fatalf("expected Clear to empty the buffer, got %d samples", len(got))
	}
}
