package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"potato-chat/internal/auth"
	"potato-chat/internal/config"
	"potato-chat/internal/events"
	"potato-chat/internal/store"
)

func SetupRouter(cfg *config.Config, s store.Store, rdb *redis.Client, hub *events.Hub) *gin.Engine {
	r := gin.Default()
	pol := auth.Policy{ReservedAdmin: cfg.Admin.Username}

	r.GET("/health", healthHandler)

	// Auth
	r.POST("/signup", SignupHandler(cfg, s))
	r.POST("/auth/login", LoginHandler(cfg, s, rdb))
	r.POST("/auth/logout", auth.AuthMiddleware(cfg, rdb, false), LogoutHandler(rdb))
	r.GET("/auth/me", auth.AuthMiddleware(cfg, rdb, false), MeHandler(s))

	// Channels
	r.GET("/channels", auth.AuthMiddleware(cfg, rdb, false), ListChannelsHandler(s))
	r.POST("/channels", auth.AuthMiddleware(cfg, rdb, false), CreateChannelHandler(pol, s))
	r.PUT("/channels/:id", auth.AuthMiddleware(cfg, rdb, false), RenameChannelHandler(pol, s))
	r.PUT("/channels/:id/lock", auth.AuthMiddleware(cfg, rdb, false), SetChannelLockedHandler(pol, s))
	r.DELETE("/channels/:id", auth.AuthMiddleware(cfg, rdb, false), DeleteChannelHandler(pol, s))

	// Messages
	r.GET("/channels/:id/messages", auth.AuthMiddleware(cfg, rdb, false), ListMessagesHandler(s))
	r.POST("/channels/:id/messages", auth.AuthMiddleware(cfg, rdb, false), SendMessageHandler(pol, s, hub))
	r.DELETE("/messages/:id", auth.AuthMiddleware(cfg, rdb, false), DeleteMessageHandler(pol, s))

	// Members (admin)
	r.GET("/users", auth.AuthMiddleware(cfg, rdb, true), ListUsersHandler(s))
	r.PUT("/users/:username", auth.AuthMiddleware(cfg, rdb, true), RenameUserHandler(pol, s))
	r.DELETE("/users/:username", auth.AuthMiddleware(cfg, rdb, true), RemoveUserHandler(pol, s))
	r.GET("/users/online", auth.AuthMiddleware(cfg, rdb, false), OnlineUserCountHandler(rdb))

	// Live message feed
	r.GET("/ws/channels/:id", WSEventsHandler(cfg, s, rdb, hub))

	return r
}
