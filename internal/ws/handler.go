package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler upgrades an authenticated request to a live feed connection.
// Browsers must come from allowedOrigin since the session rides on cookies;
// requests without an Origin header (non-browser clients) are accepted.
func Handler(hub *Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
		},
	}
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade has already written the error response
			hub.log.Debug(c.Request.Context(), "websocket upgrade failed", "error", err)
			return
		}
		cl := newClient(hub, conn)
		if !hub.join(cl) {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeWait))
			conn.Close()
			return
		}

		go cl.writePump()
		cl.readPump()
	}
}
