package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/sweetshop-golang/internal/auth"
)

// RegisterUserInput is the body of POST /auth/register.
type RegisterUserInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Mobile   string `json:"mobile" binding:"required"`
}

// LoginUserInput is the body of POST /auth/login.
type LoginUserInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterUser creates a customer account and logs it in.
func (h *Handlers) RegisterUser(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterUserInput
	if !h.bindJSON(c, &input) {
		return
	}

	// 2. --- Create the account ---
	session, err := h.Auth.Register(c.Request.Context(), auth.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Mobile:   input.Mobile,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Send Success Response ---
	c.JSON(http.StatusCreated, session)
}

// LoginUser exchanges credentials for a session token.
func (h *Handlers) LoginUser(c *gin.Context) {
	var input LoginUserInput
	if !h.bindJSON(c, &input) {
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
