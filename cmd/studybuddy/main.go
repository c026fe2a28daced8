package main

import (
	"fmt"
	"os"

	"studybuddy/internal/app"
	"studybuddy/internal/config"
	"studybuddy/internal/storage"
	"studybuddy/internal/ui"
)

func main() {
	cfg, err := config.LoadOrCreate(config.DefaultConfigFileName)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Printf("failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	a := app.New(cfg, store)

	if err := ui.Run(a); err != nil {
		fmt.Printf("error running program: %v\n", err)
		os.Exit(1)
	}
}
