package main

import (
	"log"

	"tableflip.dev/focusflow/pkg/commands"
)

func main() {
	err := commands.New().Execute()
	commands.Close()
	if err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
