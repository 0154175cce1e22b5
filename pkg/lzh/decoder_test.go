package lzh

import (
	"testing"
	"time"
)

func TestDosTimeToGoDecodesPackedDateTime(t *testing.T) {
	date := uint16((2023-1980)<<9 | 6<<5 | 15)
	clock := uint16(13<<11 | 45<<5 | 30/2)
	packed := uint32(date)<<16 | uint32(clock)

	got := dosTimeToGo(packed)
	want := time.Date(2023, time.June, 15, 13, 45, 30, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestDosTimeToGoZeroIsZeroTime(t *testing.T) {
	if got := dosTimeToGo(0); !got.IsZero() {
		t.Fatalf("expected the zero time, got %v", got)
	}
}

func TestDosTimeToGoClampsZeroMonthAndDay(t *testing.T) {
	date := uint16((2000 - 1980) << 9) // month=0, day=0
	packed := uint32(date) << 16
	got := dosTimeToGo(packed)
	want := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestIsLZHCompressedDetectsHeader(t *testing.T) {
	header := []byte{0, 0, '-', 'l', 'h', '5', '-', 0, 0}
	if !IsLZHCompressed(header) {
		t.Fatalf("expected a -lh5- header to be detected")
	}
	if IsLZHCompressed([]byte("short")) {
		t.Fatalf("expected a too-short buffer to be rejected")
	}
	if IsLZHCompressed([]byte{0, 0, 'x', 'l', 'h', '5', '-', 0, 0}) {
		t.Fatalf("expected a mismatched marker to be rejected")
	}
}

func TestGetCompressionMethodReturnsEmptyForNonLZH(t *testing.T) {
	if m := GetCompressionMethod([]byte("not an lha file")); m != "" {
		t.Fatalf("got %q want empty string", m)
	}
}

func TestGetCompressionMethodExtractsMarker(t *testing.T) {
	header := []byte{0, 0, '-', 'l', 'h', '5', '-', 0, 0}
	if m := GetCompressionMethod(header); m != "-lh5-" {
		t.Fatalf("got %q want -lh5-", m)
	}
}
