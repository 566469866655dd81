package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/auth"
	"github.com/01moynul/sweetshop-golang/internal/middleware"
)

// respondError maps err to a status code and writes {"error": msg}.
// Internal errors are logged with the request id and answered generically.
func (h *Handlers) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	if kind == apperr.KindInternal {
		h.Logger.Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(middleware.ContextRequestID),
		)
		_ = c.Error(err)
	}

	c.JSON(status, gin.H{"error": apperr.PublicMessage(err)})
}

// bindJSON binds and validates the request body, answering 400 on failure.
func (h *Handlers) bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return apperr.Wrap(apperr.KindValidation, strings.Join(msgs, "; "), err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperr.Wrap(apperr.KindValidation, "Request body is required", err)
	case errors.As(err, &syntaxErr):
		return apperr.Wrap(apperr.KindValidation, "Malformed JSON body", err)
	case errors.As(err, &typeErr):
		return apperr.Wrap(apperr.KindValidation, fmt.Sprintf("Invalid value for field '%s'", typeErr.Field), err)
	}
	return apperr.Wrap(apperr.KindValidation, "Invalid request body", err)
}

func fieldMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Field '%s' is required", field)
	case "email":
		return fmt.Sprintf("Field '%s' must be a valid email address", field)
	case "min":
		return fmt.Sprintf("Field '%s' must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("Field '%s' must not be negative", field)
	case "gt":
		return fmt.Sprintf("Field '%s' must be greater than %s", field, fe.Param())
	}
	return fmt.Sprintf("Field '%s' is invalid", field)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("Invalid sweet id")
	}
	return id, nil
}

// currentIdentity returns the caller set by AuthMiddleware.
func currentIdentity(c *gin.Context) (auth.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, apperr.Unauthenticated("User ID not found")
	}
	return identity, nil
}

// NoRoute answers unknown paths with the same JSON error shape.
func (h *Handlers) NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
}
