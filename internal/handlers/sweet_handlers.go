package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/middleware"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

// CreateSweetInput is the body of POST /sweets.
type CreateSweetInput struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Quantity    *int     `json:"quantity" binding:"omitempty,gte=0"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
}

// CheckoutInput is the body of POST /sweets/checkout.
type CheckoutInput struct {
	Items []models.CheckoutLine `json:"items" binding:"required,min=1,dive"`
}

// RedirectToSearch keeps GET /sweets working for older clients.
func (h *Handlers) RedirectToSearch(c *gin.Context) {
	target := "/api/sweets/search"
	if c.Request.URL.RawQuery != "" {
		target += "?" + c.Request.URL.RawQuery
	}
	c.Redirect(http.StatusTemporaryRedirect, target)
}

// SearchSweets handles GET /sweets/search?q=&category=&min=&max=
func (h *Handlers) SearchSweets(c *gin.Context) {
	// 1. --- Build the filter ---
	filter := models.SweetFilter{
		NameContains: strings.TrimSpace(c.Query("q")),
		Category:     strings.TrimSpace(c.Query("category")),
	}

	var err error
	if filter.MinPrice, err = priceBound(c, "min"); err != nil {
		h.respondError(c, err)
		return
	}
	if filter.MaxPrice, err = priceBound(c, "max"); err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Query ---
	sweets, err := h.Store.SearchSweets(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sweets)
}

func priceBound(c *gin.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperr.Validation("Invalid " + name + " price")
	}
	return &value, nil
}

// ListCategories handles GET /sweets/categories.
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.Store.Categories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetSweet handles GET /sweets/:id.
func (h *Handlers) GetSweet(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	sweet, err := h.Store.GetSweet(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sweet)
}

// CreateSweet handles POST /sweets.
func (h *Handlers) CreateSweet(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input CreateSweetInput
	if !h.bindJSON(c, &input) {
		return
	}

	// 2. --- Build the model ---
	sweet := &models.Sweet{
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		Price:       *input.Price,
		Image:       input.Image,
		Description: input.Description,
	}
	if input.Quantity != nil {
		sweet.Quantity = *input.Quantity
	}
	if sweet.Name == "" || sweet.Category == "" {
		h.respondError(c, apperr.Validation("Name and category are required"))
		return
	}

	// 3. --- Save ---
	if err := h.Store.CreateSweet(c.Request.Context(), sweet); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sweet)
}

// UpdateSweet handles PUT /sweets/:id. Only the fields present in the body
// change; an "id" in the body is ignored.
func (h *Handlers) UpdateSweet(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var patch models.SweetPatch
	if !h.bindJSON(c, &patch) {
		return
	}
	if blank(patch.Name) || blank(patch.Category) {
		h.respondError(c, apperr.Validation("Name and category must not be empty"))
		return
	}

	sweet, err := h.Store.UpdateSweet(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sweet)
}

// DeleteSweet handles DELETE /sweets/:id (admin).
func (h *Handlers) DeleteSweet(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Store.DeleteSweet(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	h.Logger.Info("sweet deleted", "sweet_id", id, "by", c.GetInt64(middleware.ContextUserID))
	c.Status(http.StatusNoContent)
}

// PurchaseSweet handles POST /sweets/:id/purchase.
func (h *Handlers) PurchaseSweet(c *gin.Context) {
	// 1. --- Get User ID ---
	identity, err := currentIdentity(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Parse path and quantity ---
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	qty, err := readQuantity(c, defaultPurchaseQuantity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Decrement stock and record the purchase ---
	sweet, err := h.Store.PurchaseSweet(c.Request.Context(), identity.ID, id, qty)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sweet)
}

// RestockSweet handles POST /sweets/:id/restock (admin).
func (h *Handlers) RestockSweet(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	qty, err := readQuantity(c, defaultRestockQuantity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sweet, err := h.Store.RestockSweet(c.Request.Context(), id, qty)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sweet)
}

// Checkout handles POST /sweets/checkout: every line is bought or none is.
func (h *Handlers) Checkout(c *gin.Context) {
	// 1. --- Get User ID ---
	identity, err := currentIdentity(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Bind & Validate JSON ---
	var input CheckoutInput
	if !h.bindJSON(c, &input) {
		return
	}

	// 3. --- Purchase all lines in one transaction ---
	sweets, err := h.Store.Checkout(c.Request.Context(), identity.ID, input.Items)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sweets)
}

func blank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) == ""
}
