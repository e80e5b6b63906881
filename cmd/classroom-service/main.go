// Package main — точка входа classroom-service (HTTP + SSE/WebSocket).
package main

import (
	"log"

	"github.com/psds-microservice/classroom-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
