package main

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/judgegodwins/battleship-server/api"
	"github.com/judgegodwins/battleship-server/logger"
	"github.com/judgegodwins/battleship-server/util"
)

func main() {
	util.InitValidator()

	config, err := util.LoadConfig()

	if err != nil {
		logger.Fatal("cannot load config", "error", err)
	}

	logger.Init(config.LogLevel, config.LogJSON)

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddress,
		Password: config.RedisPassword,
		DB:       0,
	})

	// check redis connection status
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("cannot reach redis", "addr", config.RedisAddress, "error", err)
	}

	server := api.NewServer(config, rdb)

	logger.Get().Info("server starting", "port", config.Port)

	if err := server.Start(); err != nil {
		logger.Fatal("server exited", "error", err)
	}
}
