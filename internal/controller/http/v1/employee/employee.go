package employee

import (
	"net/http"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/entity"
	"presence/backend/internal/repository/postgres/employee"
)

type Controller struct {
	employee Employee
}

func NewController(employee Employee) *Controller {
	return &Controller{employee: employee}
}

func (uc Controller) GetDetail(c *web.Context) error {
	userID, err := auth.UserIDFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.employee.Get(c.Ctx, userID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(detail, http.StatusOK)
}

func (uc Controller) Create(c *web.Context) error {
	userID, err := auth.UserIDFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	var data employee.UpsertRequest

	if err = c.BindFunc(&data); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.employee.Create(c.Ctx, entity.Employee{
		UserID:      userID,
		Name:        data.Name,
		Title:       data.Title,
		CurrentTask: data.CurrentTask,
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(detail, http.StatusCreated)
}

func (uc Controller) UpdateAll(c *web.Context) error {
	userID, err := auth.UserIDFromContext(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	var data employee.UpsertRequest

	if err = c.BindFunc(&data); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.employee.Update(c.Ctx, entity.Employee{
		UserID:      userID,
		Name:        data.Name,
		Title:       data.Title,
		CurrentTask: data.CurrentTask,
	})
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(detail, http.StatusOK)
}
