package auth

import (
	"fmt"
	"net/http"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/middleware"
	"presence/backend/internal/pkg/apperr"
	"presence/backend/internal/repository/postgres/user"
)

type Controller struct {
	auth Auth
}

func NewController(auth Auth) *Controller {
	return &Controller{auth: auth}
}

func (uc Controller) Register(c *web.Context) error {
	var data user.RegisterRequest

	if err := c.BindFunc(&data); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.auth.Register(c.Ctx, data.Username, data.Password)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(user.MessageResponse{
		Message: fmt.Sprintf("User %s created", detail.Username),
	}, http.StatusCreated)
}

// SignIn accepts the credentials as a form (OAuth2 password flow) or JSON.
func (uc Controller) SignIn(c *web.Context) error {
	var data user.SignInRequest

	if err := c.BindFunc(&data); err != nil {
		return c.RespondError(err)
	}

	token, err := uc.auth.Login(c.Ctx, data.Username, data.Password)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(user.TokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
	}, http.StatusAccepted)
}

func (uc Controller) SignOut(c *web.Context) error {
	token, ok := middleware.BearerToken(c.Request.Header.Get("authorization"))
	if !ok {
		return c.RespondError(apperr.ErrUnauthenticated)
	}

	if err := uc.auth.Logout(c.Ctx, token); err != nil {
		return c.RespondError(err)
	}

	return c.Respond(user.MessageResponse{Message: "Logged out"}, http.StatusOK)
}
