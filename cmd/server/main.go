package main

import (
	"context"
	"log"

	"github.com/sachwave/sachwave/internal/server"
	"github.com/sachwave/sachwave/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
