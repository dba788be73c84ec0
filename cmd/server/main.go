package main

import (
	"context"
	"log"

	"github.com/esaveliev/walletgate/internal/server"
	"github.com/esaveliev/walletgate/internal/server/config"
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
