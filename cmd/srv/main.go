package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var server srv

func main() {
	// A .env file is optional; environment variables win either way.
	godotenv.Load()

	server.loadApp()
	if err := server.app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
