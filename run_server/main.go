package main

import (
	"duel/server"
	"log"
	"os"
)

func main() {
	if err := server.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
