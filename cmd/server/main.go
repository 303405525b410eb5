package main

import (
	"fmt"
	"os"

	"potato-chat/internal/api"
	"potato-chat/internal/config"
	"potato-chat/internal/db"
	"potato-chat/internal/events"
	redisdb "potato-chat/internal/redis"
	"potato-chat/internal/store"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	rdb := redisdb.NewClient(cfg)
	hub := events.NewHub()
	s := store.New(db.DB)

	r := api.SetupRouter(cfg, s, rdb, hub)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	fmt.Printf("Starting server on %s\n", addr)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
