package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPurchaseHistory handles GET /profile/history.
func (h *Handlers) GetPurchaseHistory(c *gin.Context) {
	identity, err := currentIdentity(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	history, err := h.Store.HistoryFor(c.Request.Context(), identity.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetMe handles GET /profile/me.
func (h *Handlers) GetMe(c *gin.Context) {
	identity, err := currentIdentity(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	user, err := h.Store.GetUserByID(c.Request.Context(), identity.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Home is the plain-text health check at GET /.
func (h *Handlers) Home(c *gin.Context) {
	c.String(http.StatusOK, "Sweet Shop API is running!")
}

// Ping handles GET /api/ping.
func (h *Handlers) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
