package attendance

import (
	"net/http"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
)

type Controller struct {
	engine   Engine
	employee Employee
}

func NewController(engine Engine, employee Employee) *Controller {
	return &Controller{engine: engine, employee: employee}
}

// caller returns the id of the authenticated user after checking that a
// profile exists for them.
func (uc Controller) caller(c *web.Context) (int64, error) {
	userID, err := auth.UserIDFromContext(c.Ctx)
	if err != nil {
		return 0, err
	}

	if _, err = uc.employee.Get(c.Ctx, userID); err != nil {
		return 0, err
	}

	return userID, nil
}

func (uc Controller) Enter(c *web.Context) error {
	userID, err := uc.caller(c)
	if err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.engine.Enter(c.Ctx, userID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(detail, http.StatusOK)
}

func (uc Controller) Leave(c *web.Context) error {
	userID, err := uc.caller(c)
	if err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.engine.Leave(c.Ctx, userID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(detail, http.StatusOK)
}

func (uc Controller) CoWorkers(c *web.Context) error {
	userID, err := uc.caller(c)
	if err != nil {
		return c.RespondError(err)
	}

	list, err := uc.engine.CurrentlyPresent(c.Ctx, userID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(list, http.StatusOK)
}
