package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/judgegodwins/battleship-server/store"
	"github.com/judgegodwins/battleship-server/tokens"
)

type usernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// Generates a token using the username passed as request body
func (s *Server) TokenGenerator(c *gin.Context) {
	var data usernameRequest

	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusUnprocessableEntity, validationResponse(err))
		return
	}

	payload := tokens.Payload{
		ID:       uuid.NewString(),
		Username: data.Username,
	}

	token, err := tokens.NewJWTToken(jwt.MapClaims{
		"username": payload.Username,
		"id":       payload.ID,
	}, []byte(s.config.JWTSecret))

	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, errorResponse(ErrorMessage500))
		return
	}

	c.JSON(http.StatusOK, successResponse("Auth data", gin.H{
		"id":       payload.ID,
		"username": payload.Username,
		"token":    token,
	}))
}

type checkRoomRequest struct {
	Room string `uri:"id" binding:"required"`
}

// CheckRoom reports whether the named room exists and can still take a
// second player.
func (s *Server) CheckRoom(c *gin.Context) {
	var data checkRoomRequest

	if err := c.ShouldBindUri(&data); err != nil {
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
		return
	}

	room, err := s.rooms.Get(c.Request.Context(), data.Room)

	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("room not found"))
		return
	}
	if err != nil {
		log.Println("error getting room data:", err)
		c.JSON(http.StatusInternalServerError, errorResponse(ErrorMessage500))
		return
	}

	c.JSON(http.StatusOK, successResponse("room data", gin.H{
		"name":      room.Name,
		"available": room.Available,
		"full":      room.PlayerOne != "" && room.PlayerTwo != "",
	}))
}
