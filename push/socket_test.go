package push

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conversync/models"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func TestSocketSourceDecodesFrames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/events", func(c *gin.Context) {
		assert.Equal(t, "Bearer tok", c.GetHeader("Authorization"))
		conn, err := testUpgrader.Upgrade(c.Writer, c.Request, nil)
		require.NoError(t, err)
		defer conn.Close()

		frames := []string{
			`garbage frame`,
			`{"type":"message:new","conversation_id":5,"message_id":9}`,
			`{"type":"message:deleted","conversation_id":5,"message_id":9}`,
		}
		for _, frame := range frames {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
		}
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events"
	source, err := DialSocket(context.Background(), wsURL, "tok")
	require.NoError(t, err)
	defer source.Close()

	ev, err := source.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.EventMessageNew, ev.Type)
	assert.Equal(t, int64(9), ev.MessageID)

	ev, err = source.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.EventMessageDeleted, ev.Type)

	// Server side hung up; the error ends the subscription.
	_, err = source.Next(context.Background())
	assert.Error(t, err)
}
