// Package web is a thin layer over gin that lets handlers return errors and
// compose middleware around individual routes.
package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler handles a request inside the App. An error returned before anything
// was written is rendered with RespondError.
type Handler func(c *Context) error

// Middleware wraps a Handler with extra behaviour.
type Middleware func(Handler) Handler

// App is the entrypoint into the application. It embeds the gin engine so
// plain gin handlers (CORS, file serving, health probes) can still be mounted.
type App struct {
	*gin.Engine
	mw []Middleware
}

// NewApp creates an App applying mw to every route registered through Handle.
func NewApp(mw ...Middleware) *App {
	engine := gin.New()
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Kind: "not_found", Code: "route_not_found", Error: "route not found"})
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorBody{Kind: "validation", Code: "method_not_allowed", Error: "method not allowed"})
	})

	return &App{
		Engine: engine,
		mw:     mw,
	}
}

// Handle mounts handler on method and path. Route middleware runs inside the
// application middleware.
func (a *App) Handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)
	handler = wrapMiddleware(a.mw, handler)

	a.Engine.Handle(method, path, func(gc *gin.Context) {
		c := &Context{Context: gc, Ctx: gc.Request.Context()}
		if err := handler(c); err != nil && !gc.Writer.Written() {
			_ = c.RespondError(err)
		}
	})
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.Handle(http.MethodDelete, path, handler, mw...)
}

// wrapMiddleware makes mw[0] the outermost layer.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		if h := mw[i]; h != nil {
			handler = h(handler)
		}
	}
	return handler
}
