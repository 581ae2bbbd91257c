package web

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Context carries the gin context plus a request scoped context.Context that
// middleware may enrich.
type Context struct {
	*gin.Context
	Ctx context.Context
}

// BindFunc decodes the request body (JSON or form, by Content-Type) into data
// and validates it against its `validate` tags.
func (c *Context) BindFunc(data interface{}) error {
	if err := c.ShouldBind(data); err != nil {
		return NewValidationError(errors.Wrap(err, "decoding request"))
	}

	if err := validate.Struct(data); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return NewValidationError(errors.New(describe(fieldErrs)))
		}
		return NewValidationError(err)
	}

	return nil
}

// Respond writes data as JSON with the given status.
func (c *Context) Respond(data interface{}, status int) error {
	if status == http.StatusNoContent || data == nil {
		c.Status(status)
		return nil
	}

	c.JSON(status, data)
	return nil
}

// RespondError renders err and records it on the gin context so the request
// logger can report it. Unclassified errors become a 500.
func (c *Context) RespondError(err error) error {
	_ = c.Error(err)

	body := errorBody{Kind: "internal", Code: "internal_error", Error: http.StatusText(http.StatusInternalServerError)}
	status := http.StatusInternalServerError

	var ce Classified
	if errors.As(err, &ce) {
		status = ce.HTTPStatus()
		body.Kind = ce.ErrorKind()
		body.Code = ce.ErrorCode()
		if status < http.StatusInternalServerError {
			body.Error = ce.PublicMessage()
		}
	}

	c.AbortWithStatusJSON(status, body)
	return nil
}

func describe(fieldErrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fe.Field()+" must be at most "+fe.Param()+" characters")
		case "min":
			msgs = append(msgs, fe.Field()+" must be at least "+fe.Param()+" characters")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
