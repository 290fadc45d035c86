package push

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"conversync/models"
)

// SocketSource consumes push events over a websocket carrying the same JSON
// event shape as the ND-JSON stream, one event per text frame.
type SocketSource struct {
	conn *websocket.Conn
}

// DialSocket connects to the websocket push endpoint.
func DialSocket(ctx context.Context, url, token string) (*SocketSource, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dial push socket: %w", err)
	}
	return &SocketSource{conn: conn}, nil
}

// Next reads frames until one decodes as a push event. Frames that do not
// decode are skipped.
func (s *SocketSource) Next(ctx context.Context) (models.PushEvent, error) {
	for {
		if err := ctx.Err(); err != nil {
			return models.PushEvent{}, err
		}
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			return models.PushEvent{}, err
		}
		var ev models.PushEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			log.Printf("conversync: skipping malformed push frame: %v", err)
			continue
		}
		return ev, nil
	}
}

// Close closes the connection.
func (s *SocketSource) Close() error {
	return s.conn.Close()
}
