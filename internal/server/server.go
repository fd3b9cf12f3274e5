package server

import (
	"fmt"
	"log"
)

func Start(cfg Config) error {
	server := NewServer(cfg)

	r := server.SetupRoutes()
	r.GET("/ws", server.handleWebSocket)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Server starting on %s", addr)

	return r.Run(addr)
}
