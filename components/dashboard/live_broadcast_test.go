package dashboard

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sustainatrend/trendboard/pkg/realtime"
)

func TestHubFansOutToSubscribers(t *testing.T) {
	hub := NewLiveHub()
	events, cancel := hub.Subscribe()
	defer cancel()

	env, err := realtime.NewEnvelope(realtime.EventEnergyUpdate, realtime.PropertyUpdate{PropertyID: "p1"})
	if err != nil {
		t.Fatalf("NewEnvelope returned error: %v", err)
	}
	if err := hub.Publish(context.Background(), env); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	select {
	case got := <-events:
		if got.Event != realtime.EventEnergyUpdate {
			t.Fatalf("unexpected envelope %#v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for envelope")
	}
}

func TestHubRoutesThroughFeed(t *testing.T) {
	feed := NewLiveFeed("breeam")
	hub := NewLiveHub(WithHubFeed(feed))

	env, _ := realtime.NewEnvelope(realtime.EventCarbonUpdate, realtime.PropertyUpdate{PropertyID: "p1", Change: -2})
	_ = hub.Publish(context.Background(), env)

	if snap := feed.Snapshot("carbon"); len(snap.Entries) != 1 {
		t.Fatalf("expected update routed into feed, got %#v", snap.Entries)
	}
}

func TestHubTileUpdatedPublishesRefresh(t *testing.T) {
	hub := NewLiveHub()
	events, cancel := hub.Subscribe()
	defer cancel()

	err := hub.TileUpdated(context.Background(), TileEvent{
		PageCode: "st.page.overview",
		Instance: TileInstance{ID: "t1"},
		Reason:   "add",
	})
	if err != nil {
		t.Fatalf("TileUpdated returned error: %v", err)
	}

	select {
	case env := <-events:
		if env.Event != "tile_refresh" {
			t.Fatalf("expected tile_refresh envelope, got %s", env.Event)
		}
		var event TileEvent
		if err := env.DecodeData(&event); err != nil {
			t.Fatalf("DecodeData returned error: %v", err)
		}
		if event.PageCode != "st.page.overview" || event.Reason != "add" {
			t.Fatalf("unexpected event payload %#v", event)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for refresh envelope")
	}
}

func TestHubSubscribeCancelIsIdempotent(t *testing.T) {
	hub := NewLiveHub()
	_, cancel := hub.Subscribe()
	cancel()
	cancel()
	env, _ := realtime.NewEnvelope(realtime.EventConnected, nil)
	if err := hub.Publish(context.Background(), env); err != nil {
		t.Fatalf("Publish after cancel returned error: %v", err)
	}
}

func TestServeSSEWritesHelloFirst(t *testing.T) {
	hub := NewLiveHub()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeSSE))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET returned error: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %s", ct)
	}

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read hello line: %v", err)
	}
	if !strings.HasPrefix(line, "data: ") {
		t.Fatalf("expected SSE data line, got %q", line)
	}
	env, err := realtime.DecodeEnvelope([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")))
	if err != nil {
		t.Fatalf("decode hello envelope: %v", err)
	}
	if env.Event != realtime.EventConnected {
		t.Fatalf("expected connected hello, got %s", env.Event)
	}
}

func TestServeSSEStreamsPublishedEnvelopes(t *testing.T) {
	hub := NewLiveHub()
	server := httptest.NewServer(http.HandlerFunc(hub.ServeSSE))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET returned error: %v", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	if _, err := reader.ReadString('\n'); err != nil { // hello
		t.Fatalf("read hello: %v", err)
	}
	if _, err := reader.ReadString('\n'); err != nil { // hello terminator
		t.Fatalf("read hello terminator: %v", err)
	}

	// The handler subscribes after the hello write, so publish repeatedly
	// until one lands on the stream.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				env, _ := realtime.NewEnvelope(realtime.EventBreeamUpdate, realtime.PropertyUpdate{PropertyID: "p9"})
				_ = hub.Publish(context.Background(), env)
			}
		}
	}()

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read event line: %v", err)
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		decoded, err := realtime.DecodeEnvelope([]byte(strings.TrimPrefix(trimmed, "data: ")))
		if err != nil {
			t.Fatalf("decode event: %v", err)
		}
		if decoded.Event == realtime.EventBreeamUpdate {
			return
		}
	}
}
