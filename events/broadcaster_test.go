package events

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestBroadcastReachesEverySubscriber(t *testing.T) {
	b := NewBroadcaster()
	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	b.Publish("purchase.recorded", map[string]string{"userId": "u1"})

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			if ev.Name != "purchase.recorded" || ev.Data != `{"userId":"u1"}` {
				t.Errorf("subscriber %d got %+v", i, ev)
			}
			if ev.ID == "" {
				t.Errorf("subscriber %d got event without id", i)
			}
		default:
			t.Errorf("subscriber %d received nothing", i)
		}
	}
}

func TestBroadcastNeverBlocksOnFullSubscriber(t *testing.T) {
	b := NewBroadcaster()
	_, slow := b.Subscribe()
	_, fast := b.Subscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < subscriberBuffer*3; i++ {
			b.Broadcast(Event{Name: "tick", Data: "{}"})
			<-fast
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked on a subscriber that never reads")
	}

	if got := len(slow); got != subscriberBuffer {
		t.Errorf("slow subscriber buffered %d events, want %d", got, subscriberBuffer)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	id, ch := b.Subscribe()

	b.Unsubscribe(id)
	b.Unsubscribe(id) // second call is a no-op

	if _, ok := <-ch; ok {
		t.Error("channel still open after Unsubscribe")
	}
	if n := b.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}
	if n := b.Broadcast(Event{Data: "{}"}); n != 0 {
		t.Errorf("Broadcast delivered to %d subscribers, want 0", n)
	}
}

func TestCloseDisconnectsEveryone(t *testing.T) {
	b := NewBroadcaster()
	_, ch := b.Subscribe()

	b.Close()

	if _, ok := <-ch; ok {
		t.Error("channel still open after Close")
	}
	_, late := b.Subscribe()
	if _, ok := <-late; ok {
		t.Error("subscription after Close should be closed")
	}
}

func TestEventFraming(t *testing.T) {
	var sb strings.Builder
	ev := Event{ID: "7", Name: "leaderboard.snapshot", Data: "line1\nline2"}

	if _, err := ev.WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	want := "id: 7\nevent: leaderboard.snapshot\ndata: line1\ndata: line2\n\n"
	if sb.String() != want {
		t.Errorf("framing = %q, want %q", sb.String(), want)
	}
}

func TestHandlerStreamsPublishedEvents(t *testing.T) {
	b := NewBroadcaster()
	srv := httptest.NewServer(NewHandler(b).HandleStream())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	// The retry preamble is written after the subscription is registered.
	if line, err := reader.ReadString('\n'); err != nil || line != "retry: 5000\n" {
		t.Fatalf("first line = %q, %v", line, err)
	}
	reader.ReadString('\n')

	b.Publish("purchase.recorded", map[string]int{"n": 1})

	var lines []string
	for len(lines) < 3 {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("reading stream: %v", err)
		}
		lines = append(lines, strings.TrimRight(line, "\n"))
	}
	if lines[1] != "event: purchase.recorded" || lines[2] != `data: {"n":1}` {
		t.Errorf("stream lines = %q", lines)
	}
}
