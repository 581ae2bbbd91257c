package health

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"presence/backend/foundation/web"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

type Controller struct {
	pingers map[string]Pinger
}

func NewController(pingers map[string]Pinger) *Controller {
	return &Controller{pingers: pingers}
}

type response struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (hc Controller) Check(c *web.Context) error {
	resp := response{Status: "ok", Checks: make(map[string]string, len(hc.pingers))}

	for name, p := range hc.pingers {
		if err := p.PingContext(c.Ctx); err != nil {
			_ = c.Error(errors.Wrapf(err, "pinging %s", name))
			resp.Status = "unavailable"
			resp.Checks[name] = "down"
			continue
		}
		resp.Checks[name] = "up"
	}

	if resp.Status != "ok" {
		return c.Respond(resp, http.StatusServiceUnavailable)
	}

	return c.Respond(resp, http.StatusOK)
}
