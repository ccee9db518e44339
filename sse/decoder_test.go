package sse

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/alexschlessinger/martool/events"
)

// chunkReader yields the payload in fixed-size chunks to exercise
// carry-over across read boundaries.
type chunkReader struct {
	data []byte
	size int
	pos  int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	end := r.pos + r.size
	if end > len(r.data) {
		end = len(r.data)
	}
	n := copy(p, r.data[r.pos:end])
	r.pos += n
	return n, nil
}

func collect(t *testing.T, r io.Reader) []*events.Event {
	t.Helper()
	var got []*events.Event
	if err := Decode(context.Background(), r, func(ev *events.Event) {
		got = append(got, ev)
	}); err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	return got
}

func TestDecodeOrderAcrossChunkBoundaries(t *testing.T) {
	// Multi-byte content ensures UTF-8 sequences get split mid-rune
	// for small chunk sizes.
	payload := "data: {\"type\":\"status\",\"agent\":\"Планировщик\",\"step\":\"анализ\"}\n" +
		"data: {\"type\":\"chunk\",\"content\":\"Xin chào thế giới\"}\n" +
		"data: {\"type\":\"done\",\"masterContentId\":\"mc-1\"}\n"

	want := collect(t, strings.NewReader(payload))
	if len(want) != 3 {
		t.Fatalf("expected 3 events from single-chunk read, got %d", len(want))
	}

	for _, size := range []int{1, 2, 3, 5, 7, 16, 64} {
		got := collect(t, &chunkReader{data: []byte(payload), size: size})
		if len(got) != len(want) {
			t.Fatalf("chunk size %d: got %d events, want %d", size, len(got), len(want))
		}
		for i := range got {
			if got[i].Type != want[i].Type {
				t.Errorf("chunk size %d: event %d type = %q, want %q", size, i, got[i].Type, want[i].Type)
			}
			if string(got[i].Raw) != string(want[i].Raw) {
				t.Errorf("chunk size %d: event %d payload = %s, want %s", size, i, got[i].Raw, want[i].Raw)
			}
		}
	}
}

func TestDecodeMalformedLineResilience(t *testing.T) {
	payload := "data: {\"type\":\"ok\"}\n" +
		"data: NOT_JSON\n" +
		"data: {\"type\":\"still_ok\"}\n"

	got := collect(t, strings.NewReader(payload))
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != "ok" || got[1].Type != "still_ok" {
		t.Errorf("got types %q, %q; want ok, still_ok", got[0].Type, got[1].Type)
	}
}

func TestDecodeUnterminatedFinalLine(t *testing.T) {
	payload := "data: {\"type\":\"status\"}\ndata: {\"type\":\"done\"}"

	got := collect(t, strings.NewReader(payload))
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[1].Type != events.EventTypeDone {
		t.Errorf("final event type = %q, want done", got[1].Type)
	}
}

func TestDecodeIgnoresNonDataLines(t *testing.T) {
	payload := ": comment\n" +
		"event: custom\n" +
		"\n" +
		"data: {\"type\":\"done\"}\n"

	got := collect(t, strings.NewReader(payload))
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
}

func TestDecodeCRLFLines(t *testing.T) {
	payload := "data: {\"type\":\"status\"}\r\ndata: {\"type\":\"done\"}\r\n"

	got := collect(t, strings.NewReader(payload))
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
}

func TestDecodeEmptyObjectStillEmitted(t *testing.T) {
	got := collect(t, strings.NewReader("data: {}\n"))
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Type != "" {
		t.Errorf("type = %q, want empty", got[0].Type)
	}
}

func TestDecodeContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	payload := "data: {\"type\":\"status\"}\ndata: {\"type\":\"chunk\",\"content\":\"x\"}\n"
	var count int
	err := Decode(ctx, strings.NewReader(payload), func(ev *events.Event) {
		count++
		cancel()
	})
	if err == nil {
		t.Fatal("expected context error after cancellation")
	}
	if count != 1 {
		t.Errorf("emitted %d events after cancel, want 1", count)
	}
}
