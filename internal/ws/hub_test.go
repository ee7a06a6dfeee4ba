package ws

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DonJuan-DeMarco/cs2investments/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*Hub, string, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(nil)
	r := gin.New()
	r.GET("/ws", hub.Handle)

	ts := httptest.NewServer(r)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	return hub, url, ts.Close
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d clients, have %d", want, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcastsWrittenPrices(t *testing.T) {
	hub, url, done := startHub(t)
	defer done()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	record := models.NewItemPrice(7, 9099)
	record.RecordedAt = time.Now()
	hub.PublishPrice(record)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.ItemPrice
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("expected a price event, got error: %v", err)
	}
	if got.ItemID != 7 || got.PriceCents != 9099 {
		t.Fatalf("unexpected event: %+v", got)
	}
}

// The batch runner publishes from every worker in a group at once, so the
// hub must serialize writes to each connection itself.
func TestHubSerializesConcurrentPublishes(t *testing.T) {
	hub, url, done := startHub(t)
	defer done()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, 1)

	received := make(chan models.ItemPrice, 256)
	go func() {
		for {
			var got models.ItemPrice
			if err := conn.ReadJSON(&got); err != nil {
				close(received)
				return
			}
			received <- got
		}
	}()

	const workers, perWorker = 10, 20
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				hub.PublishPrice(models.NewItemPrice(uint(w+1), int64(i+1)))
			}
		}(w)
	}
	wg.Wait()

	// The client may fall behind and be dropped, but every frame that does
	// arrive must be intact.
	timeout := time.After(2 * time.Second)
	count := 0
	for {
		select {
		case got, ok := <-received:
			if !ok {
				if count == 0 {
					t.Fatal("connection closed before any price event arrived")
				}
				return
			}
			if got.ItemID < 1 || got.ItemID > workers || got.PriceCents < 1 || got.PriceCents > perWorker {
				t.Fatalf("corrupted price event: %+v", got)
			}
			count++
		case <-timeout:
			if count == 0 {
				t.Fatal("no price events received during concurrent publishing")
			}
			return
		}
	}
}

func TestHubRemovesClosedClients(t *testing.T) {
	hub, url, done := startHub(t)
	defer done()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Publishing to an empty hub must be a no-op.
	hub.PublishPrice(models.NewItemPrice(1, 100))
}
