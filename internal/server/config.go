package server

import (
	"github.com/raysh454/respdiff/internal/app"
	"github.com/raysh454/respdiff/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string

	// AppConfig is used to build the application when Orchestrator is nil.
	AppConfig *app.Config

	Logger logging.Logger

	// Orchestrator, when set, is used as is and is not shut down by Close.
	Orchestrator *app.Orchestrator

	// MaxBodyBytes limits the size of a compare request body.
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 10 << 20
