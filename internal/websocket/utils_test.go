package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// Several goroutines share one Writer; the server must receive every
// frame intact. Unserialized writes would corrupt frames or trip
// gorilla's concurrent-write detection.
func TestWriterSerializesConcurrentFrames(t *testing.T) {
	const goroutines, framesEach = 4, 25

	upgrader := websocket.Upgrader{}
	received := make(chan int, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		n := 0
		for {
			var frame SessionFrame
			if err := conn.ReadJSON(&frame); err != nil {
				break
			}
			if frame.Event != EventSession {
				t.Errorf("unexpected frame event %q", frame.Event)
			}
			n++
		}
		received <- n
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	writer := NewWriter(conn)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < framesEach; i++ {
				if err := writer.WriteTyped(SessionFrame{Event: EventSession, Payload: i}); err != nil {
					t.Errorf("write: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	conn.Close()

	select {
	case n := <-received:
		if n != goroutines*framesEach {
			t.Fatalf("server received %d frames, want %d", n, goroutines*framesEach)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server read loop")
	}
}
