package preview

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const writeTimeout = 3 * time.Second

// Hub is the set of connected preview clients.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) snapshot() []*websocket.Conn {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		out = append(out, c)
	}
	return out
}

// Broadcast writes the messages, in order, to every client in parallel and
// waits for all writes. Each write gets its own timeout, independent of the
// caller. A client that fails or times out is closed and removed.
func (h *Hub) Broadcast(messages ...[]byte) {
	var wg sync.WaitGroup
	for _, conn := range h.snapshot() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := send(context.Background(), conn, messages); err != nil {
				h.Remove(conn)
				conn.CloseNow()
			}
		}()
	}
	wg.Wait()
}

func send(ctx context.Context, conn *websocket.Conn, messages [][]byte) error {
	for _, msg := range messages {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := conn.Write(wctx, websocket.MessageBinary, msg)
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}
