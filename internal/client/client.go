// Package client is a typed HTTP client for the Sweet Shop API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/01moynul/sweetshop-golang/internal/models"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// IsUnauthorized reports whether err means the session token was rejected
// and the user has to log in again.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Mobile   string `json:"mobile"`
}

// SweetInput is the body of a create call.
type SweetInput struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       *string `json:"image,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SearchParams are the optional search filters.
type SearchParams struct {
	Query    string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func (p SearchParams) values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if p.MinPrice != nil {
		v.Set("min", strconv.FormatFloat(*p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice != nil {
		v.Set("max", strconv.FormatFloat(*p.MaxPrice, 'f', -1, 64))
	}
	return v
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken attaches a bearer token to every following request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Search(ctx context.Context, params SearchParams) ([]models.Sweet, error) {
	path := "/sweets/search"
	if q := params.values().Encode(); q != "" {
		path += "?" + q
	}
	var sweets []models.Sweet
	if err := c.do(ctx, http.MethodGet, path, nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, http.MethodGet, "/sweets/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetSweet(ctx context.Context, id int64) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := c.do(ctx, http.MethodGet, sweetPath(id, ""), nil, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (c *Client) CreateSweet(ctx context.Context, in SweetInput) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := c.do(ctx, http.MethodPost, "/sweets", in, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (c *Client) UpdateSweet(ctx context.Context, id int64, patch models.SweetPatch) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := c.do(ctx, http.MethodPut, sweetPath(id, ""), patch, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (c *Client) DeleteSweet(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, sweetPath(id, ""), nil, nil)
}

// Purchase buys qty of a sweet. A qty of 0 lets the server apply its default.
func (c *Client) Purchase(ctx context.Context, id int64, qty int) (*models.Sweet, error) {
	return c.stockCall(ctx, sweetPath(id, "/purchase"), qty)
}

// Restock adds qty to a sweet. A qty of 0 lets the server apply its default.
func (c *Client) Restock(ctx context.Context, id int64, qty int) (*models.Sweet, error) {
	return c.stockCall(ctx, sweetPath(id, "/restock"), qty)
}

func (c *Client) stockCall(ctx context.Context, path string, qty int) (*models.Sweet, error) {
	var body any
	if qty != 0 {
		body = map[string]int{"quantity": qty}
	}
	var sweet models.Sweet
	if err := c.do(ctx, http.MethodPost, path, body, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// Checkout buys every line in one transaction on the server.
func (c *Client) Checkout(ctx context.Context, lines []models.CheckoutLine) ([]models.Sweet, error) {
	body := map[string]any{"items": lines}
	var sweets []models.Sweet
	if err := c.do(ctx, http.MethodPost, "/sweets/checkout", body, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

func (c *Client) History(ctx context.Context) ([]models.HistoryRow, error) {
	var history []models.HistoryRow
	if err := c.do(ctx, http.MethodGet, "/profile/history", nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/profile/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func sweetPath(id int64, suffix string) string {
	return "/sweets/" + strconv.FormatInt(id, 10) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach sweet shop API: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(data, &payload) == nil {
		msg = payload.Error
		if msg == "" {
			msg = payload.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
