package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaqqye/attendance_backend_v1/internal/logging"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(logging.Discard())
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/live", Handler(hub, "http://allowed.test"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
}

func TestHubDeliversEvents(t *testing.T) {
	hub, url := startHub(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	event := models.AttendanceEvent{Type: models.EventCreated, RecordID: "r1", At: time.Now().UTC()}
	// registration is asynchronous, keep publishing until the client reads one
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				hub.Publish(event)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var got models.AttendanceEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, models.EventCreated, got.Type)
	assert.Equal(t, "r1", got.RecordID)
}

func TestHandlerRejectsForeignOrigin(t *testing.T) {
	_, url := startHub(t)

	header := map[string][]string{"Origin": {"http://evil.test"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestPublishOnNilHub(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() { hub.Publish(models.AttendanceEvent{Type: models.EventDeleted}) })
}

func TestHandlersReturnAfterHubStops(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logging.Discard())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	returned := make(chan struct{}, 2)
	live := Handler(hub, "*")
	r := gin.New()
	r.GET("/live", func(c *gin.Context) {
		live(c)
		returned <- struct{}{}
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	cancel()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}

	// the open connection is closed by the hub and its handler unwinds
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("handler of open connection still blocked")
	}

	// a connection arriving after shutdown is turned away
	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer late.Close()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("handler of late connection still blocked")
	}
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = late.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
