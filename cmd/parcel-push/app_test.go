package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/BearBump/ParcelBox/internal/broker/messages"
	"github.com/BearBump/ParcelBox/internal/models"
	"github.com/BearBump/ParcelBox/internal/push"
)

type fakeConsumer struct {
	events <-chan messages.ParcelEvent
}

func (c *fakeConsumer) Consume(ctx context.Context, handler func(key, value []byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			b, _ := json.Marshal(ev)
			if err := handler([]byte(ev.Group), b); err != nil {
				return err
			}
		}
	}
}

func TestRunParcelPush_EndToEnd(t *testing.T) {
	hub := push.NewHub(push.NewRegistry())
	events := make(chan messages.ParcelEvent, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- runParcelPush(ctx, pushHTTPOpts{
			httpAddr: "127.0.0.1:0",
			onListen: func(addr string) { addrCh <- addr },
			hub:      hub,
		}, hub, &fakeConsumer{events: events}, "parcel.events")
	}()

	var addr string
	select {
	case addr = <-addrCh:
	case err := <-errCh:
		t.Fatalf("push gateway exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("push gateway did not start")
	}

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conn, err := websocket.Dial("ws://"+addr+"/ws", "", "http://localhost/")
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	require.NoError(t, json.NewEncoder(conn).Encode(map[string]string{
		"action":         "join",
		"trackingNumber": "TRK001",
	}))
	require.Eventually(t, func() bool {
		return len(hub.Registry().MembersOf("tracking_TRK001")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	p := &models.Parcel{ID: "id-1", TrackingNumber: "TRK001", Status: "Delivered"}
	events <- messages.NewParcelEvent(messages.EventParcelStatusUpdated, "tracking_TRK001", p)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got messages.ParcelEvent
	require.NoError(t, json.NewDecoder(conn).Decode(&got))
	require.Equal(t, messages.EventParcelStatusUpdated, got.Event)
	require.Equal(t, "Delivered", got.Parcel.Status)

	resp, err = http.Get("http://" + addr + "/stats")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.Contains(t, string(b), `"peers":1`)

	cancel()
	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("push gateway did not shut down")
	}
}
