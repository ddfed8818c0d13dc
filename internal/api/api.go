// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/Infernos444/insurely/internal/auth"
	"github.com/Infernos444/insurely/internal/config"
	"github.com/Infernos444/insurely/internal/infrastructure"
	"github.com/Infernos444/insurely/pkg/middleware"
	"github.com/Infernos444/insurely/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Every API route sits behind token verification; only the native health
// routes outside this module are anonymous.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(auth.Middleware(runtime.Auth, runtime.Logger))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
