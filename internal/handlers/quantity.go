package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
)

const (
	defaultPurchaseQuantity = 1
	defaultRestockQuantity  = 10
)

type quantityInput struct {
	Quantity json.RawMessage `json:"quantity"`
}

// readQuantity pulls an optional "quantity" out of the request body.
// A missing body, a missing field, an unparsable value or zero all mean
// def. Negative and fractional amounts are rejected.
func readQuantity(c *gin.Context, def int) (int, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return 0, apperr.Validation("Could not read request body")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return def, nil
	}

	var input quantityInput
	if err := json.Unmarshal(body, &input); err != nil {
		return def, nil
	}
	return parseQuantity(input.Quantity, def)
}

func parseQuantity(raw json.RawMessage, def int) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return def, nil
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return def, nil
		}
		text = strings.TrimSpace(text)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(raw)
	default:
		return def, nil
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return def, nil
	}
	if value == 0 {
		return def, nil
	}
	if value < 0 {
		return 0, apperr.Validation("Quantity must be a positive whole number")
	}
	if value != math.Trunc(value) || value > math.MaxInt32 {
		return 0, apperr.Validation("Quantity must be a positive whole number")
	}
	return int(value), nil
}
