package server

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"sync"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Pranav2188/water-pollution-quirklab/internal/config"
	"github.com/Pranav2188/water-pollution-quirklab/internal/middleware"
	"github.com/Pranav2188/water-pollution-quirklab/internal/module"
	"github.com/Pranav2188/water-pollution-quirklab/internal/rendering"
	"github.com/Pranav2188/water-pollution-quirklab/internal/validation"
	"github.com/Pranav2188/water-pollution-quirklab/internal/websocket"
)

// Dependencies holds everything the server needs. Echo is optional.
type Dependencies struct {
	Config   config.Provider
	Renderer rendering.Renderer
	Bridge   *websocket.Bridge
	// Static is served under /static; nil serves nothing.
	Static fs.FS
	// Closers are closed in order after the modules and the bridge during shutdown,
	// e.g. the pub/sub bridge and the view store.
	Closers []io.Closer
	Echo    *echo.Echo
}

// Server holds the HTTP server and the services it shuts down.
type Server struct {
	E        *echo.Echo
	Cfg      config.Provider
	Renderer rendering.Renderer
	Bridge   *websocket.Bridge

	static  fs.FS
	closers []io.Closer
	modules []module.Module

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a new Server instance with the application middleware installed.
func New(deps Dependencies) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.Renderer == nil {
		return nil, errors.New("server: renderer is required")
	}
	if deps.Bridge == nil {
		return nil, errors.New("server: websocket bridge is required")
	}

	e := deps.Echo
	if e == nil {
		e = echo.New()
	}
	e.HideBanner = true
	e.Validator = validation.NewValidator()
	if r, ok := deps.Renderer.(echo.Renderer); ok {
		e.Renderer = r
	}
	setupErrorHandling(e)

	store := sessions.NewCookieStore([]byte(deps.Config.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())
	e.Use(session.Middleware(store))
	e.Use(middleware.Viewer())

	return &Server{
		E:        e,
		Cfg:      deps.Config,
		Renderer: deps.Renderer,
		Bridge:   deps.Bridge,
		static:   deps.Static,
		closers:  deps.Closers,
	}, nil
}
