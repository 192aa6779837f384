package api

import (
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/judgegodwins/battleship-server/util"
)

var testServer *Server

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	util.InitValidator()

	config := &util.Config{
		JWTSecret:    "YELLOW SUBMARINE, BLACK WIZARDRY",
		RedisAddress: "localhost:6379",
		Port:         "8080",
		SendTimeout:  time.Second,
	}

	rdb := redis.NewClient(&redis.Options{Addr: config.RedisAddress})

	testServer = NewServer(config, rdb)

	os.Exit(m.Run())
}
