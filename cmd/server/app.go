package main

import (
	"github.com/gorilla/mux"

	"github.com/techLii/chatobi/internal/config"
	"github.com/techLii/chatobi/internal/hub"
)

// App is the main application container.
type App struct {
	Config *config.Config
	Hub    *hub.Hub
	Router *mux.Router
}
