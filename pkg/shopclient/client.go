// Package shopclient is a typed HTTP client for the Mini App storefront API.
package shopclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/vapecloud/miniapp/pkg/errors"
)

const responseBodyReadLimit int64 = 1024

// Client talks to the storefront API over its flat JSON endpoints.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	sessionToken string
	initData     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSessionToken preloads a bearer token obtained from a previous Init.
func WithSessionToken(token string) Option {
	return func(c *Client) {
		c.sessionToken = strings.TrimSpace(token)
	}
}

// WithInitData attaches the raw Telegram launch payload to every request.
func WithInitData(initData string) Option {
	return func(c *Client) {
		c.initData = strings.TrimSpace(initData)
	}
}

// NewClient builds a storefront client for the given API base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base URL is required")
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// SetSessionToken swaps the bearer token used for authenticated calls.
func (c *Client) SetSessionToken(token string) {
	c.sessionToken = strings.TrimSpace(token)
}

// InitRequest carries the Mini App launch payload.
type InitRequest struct {
	InitData string    `json:"initData,omitempty"`
	User     *InitUser `json:"user,omitempty"`
}

// InitUser stands in for real launch data outside production.
type InitUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
}

// InitResult is the session handed back after a successful launch.
type InitResult struct {
	User    Account `json:"user"`
	Balance float64 `json:"balance"`
	Token   string  `json:"token"`
}

// Account identifies the resolved shopper.
type Account struct {
	ID         uint   `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	Username   string `json:"username,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

// Init exchanges launch data for a session and stores the returned token on
// the client.
func (c *Client) Init(ctx context.Context, req InitRequest) (*InitResult, error) {
	var result InitResult
	if err := c.do(ctx, http.MethodPost, "/api/init", nil, req, &result); err != nil {
		return nil, err
	}
	c.sessionToken = result.Token
	return &result, nil
}

// CartItem is one line of the shopper's cart.
type CartItem struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// Cart is the server-computed cart snapshot.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// AddToCart puts one unit of a product into the cart.
func (c *Client) AddToCart(ctx context.Context, productID uint) error {
	payload := map[string]uint{"product_id": productID}
	return c.do(ctx, http.MethodPost, "/api/cart/add", nil, payload, nil)
}

// CartItems fetches the cart with totals.
func (c *Client) CartItems(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart/items", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateQuantity stores the absolute quantity for one cart line; zero removes
// the line.
func (c *Client) UpdateQuantity(ctx context.Context, productID uint, quantity int) error {
	payload := map[string]any{"product_id": productID, "quantity": quantity}
	return c.do(ctx, http.MethodPost, "/api/cart/update", nil, payload, nil)
}

// RemoveItem drops one product from the cart.
func (c *Client) RemoveItem(ctx context.Context, productID uint) error {
	payload := map[string]uint{"product_id": productID}
	return c.do(ctx, http.MethodPost, "/api/cart/remove", nil, payload, nil)
}

// Order is one entry of the shopper's order history.
type Order struct {
	ID             uint    `json:"id"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
	TotalAmount    float64 `json:"total_amount"`
	CashbackEarned float64 `json:"cashback_earned"`
	DeliveryType   string  `json:"delivery_type"`
	PickupLocation *string `json:"pickup_location,omitempty"`
	DeliveryCity   *string `json:"delivery_city,omitempty"`
}

// Profile is the shopper's balance plus recent orders.
type Profile struct {
	Balance float64 `json:"balance"`
	Orders  []Order `json:"orders"`
}

// Profile fetches the shopper's balance and order history.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Cities lists the cities where courier delivery is available.
func (c *Client) Cities(ctx context.Context) ([]string, error) {
	var cities []string
	if err := c.do(ctx, http.MethodGet, "/api/cities", nil, nil, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// Location is a fulfillment point: a pickup counter or a courier zone with
// its delivery fee.
type Location struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	DeliveryPrice *float64 `json:"delivery_price,omitempty"`
}

// Locations lists fulfillment locations filtered by type and city.
func (c *Client) Locations(ctx context.Context, locationType, city string) ([]Location, error) {
	query := url.Values{}
	if strings.TrimSpace(locationType) != "" {
		query.Set("type", locationType)
	}
	if strings.TrimSpace(city) != "" {
		query.Set("city", city)
	}

	var locations []Location
	if err := c.do(ctx, http.MethodGet, "/api/pickup-locations", query, nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// OrderRequest is the checkout payload assembled by the wizard.
type OrderRequest struct {
	CustomerName     string `json:"customer_name"`
	CustomerPhone    string `json:"customer_phone"`
	DeliveryType     string `json:"delivery_type"`
	DeliveryCity     string `json:"delivery_city"`
	PickupLocationID *uint  `json:"pickup_location_id,omitempty"`
	DeliveryAddress  string `json:"delivery_address,omitempty"`
}

// OrderResult acknowledges a placed order.
type OrderResult struct {
	Message string
}

// CreateOrder places the order.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	var placed ack
	if err := c.do(ctx, http.MethodPost, "/api/order/create", nil, req, &placed); err != nil {
		return nil, err
	}
	if !placed.Success {
		msg := placed.Error
		if msg == "" {
			msg = "order rejected"
		}
		return nil, pkgerrors.New(pkgerrors.CodeDependency, msg)
	}
	return &OrderResult{Message: placed.Message}, nil
}

type ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "shop client not configured")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.sessionToken)
	}
	if c.initData != "" {
		req.Header.Set("X-Telegram-Init-Data", c.initData)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return c.errorFromResponse(resp)
	}

	if out == nil {
		var mutation ack
		if err := json.NewDecoder(resp.Body).Decode(&mutation); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
		}
		if !mutation.Success {
			msg := mutation.Error
			if msg == "" {
				msg = "request rejected"
			}
			return pkgerrors.New(pkgerrors.CodeDependency, msg)
		}
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))

	var body ack
	msg := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		msg = body.Error
	}
	if msg == "" {
		msg = fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return pkgerrors.New(codeForStatus(resp.StatusCode), msg)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	default:
		return pkgerrors.CodeDependency
	}
}
