package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/judgegodwins/battleship-server/logger"
	"github.com/judgegodwins/battleship-server/session"
	"github.com/judgegodwins/battleship-server/store"
	"github.com/judgegodwins/battleship-server/util"
	"github.com/judgegodwins/battleship-server/ws"
)

type Server struct {
	config    *util.Config
	wsManager *ws.Manager
	router    *gin.Engine
	rooms     store.RoomStore
}

func NewServer(config *util.Config, rdb *redis.Client) *Server {
	router := gin.Default()

	st := store.NewRedisStore(rdb)

	wsManager := ws.NewManager(config, logger.With("component", "ws"))
	sessions := session.NewManager(st, st, wsManager, session.Options{
		StrictTurnOrder:     config.StrictTurnOrder,
		RejectResolvedCells: config.RejectResolvedCells,
	}, logger.With("component", "session"))
	wsManager.SetSessions(sessions)

	server := &Server{
		config:    config,
		wsManager: wsManager,
		router:    router,
		rooms:     st,
	}

	router.GET("/healthz", server.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/auth/username", server.TokenGenerator)
	router.GET("/rooms/:id", server.AuthMiddleware, server.CheckRoom)
	router.Any("/ws", server.wsManager.ServeWS)

	return server
}

func (s *Server) Start() error {
	handler := cors.AllowAll().Handler(s.router)
	return http.ListenAndServe(fmt.Sprintf(":%v", s.config.Port), handler)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
