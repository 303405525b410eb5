package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"potato-chat/internal/auth"
	"potato-chat/internal/config"
	"potato-chat/internal/events"
	"potato-chat/internal/store"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const wsWriteTimeout = 10 * time.Second

// GET /ws/channels/:id
// Live message feed for one channel. Browsers cannot set an Authorization
// header on a websocket, so the token rides in the "token" query parameter.
func WSEventsHandler(cfg *config.Config, s store.Store, rdb *redis.Client, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Missing token"}})
			return
		}
		claims, err := auth.ParseJWT(cfg.Server.JWTSecret, tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Invalid or expired token"}})
			return
		}
		sessionToken, err := auth.GetSession(rdb, claims.UserID)
		if err != nil || sessionToken != tokenStr {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Session expired or invalid"}})
			return
		}

		id, ok := channelIDParam(c)
		if !ok {
			return
		}
		if _, err := s.GetChannel(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "Channel not found"}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"message": "Failed to load channel"}})
			return
		}

		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		subID, stream := hub.Subscribe(id)
		defer hub.Unsubscribe(id, subID)

		// Reader goroutine only detects the peer going away
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case ev, open := <-stream:
				if !open {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}
}
