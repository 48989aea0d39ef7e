package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "http://localhost:8080"

// ApiClient handles requests to the FoodMaster API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a client for FOODMASTER_API_URL, or the local
// server when unset.
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("FOODMASTER_API_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// MenuItem represents a dish on the menu
type MenuItem struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// OrderItem represents a line of an order
type OrderItem struct {
	FoodID   string `json:"foodId"`
	Quantity int    `json:"quantity"`
}

// Order represents an order as stored
type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName"`
	Items        []OrderItem `json:"items"`
	Date         time.Time   `json:"date"`
	IsDelivered  bool        `json:"isDelivered"`
}

// LineView is an order line with its label and total
type LineView struct {
	FoodID   string  `json:"foodId"`
	Quantity int     `json:"quantity"`
	Label    string  `json:"label"`
	Dangling bool    `json:"dangling"`
	Total    float64 `json:"total"`
}

// OrderView is an order with its derived figures
type OrderView struct {
	ID           string     `json:"id"`
	CustomerName string     `json:"customerName"`
	Date         time.Time  `json:"date"`
	IsDelivered  bool       `json:"isDelivered"`
	StatusLabel  string     `json:"statusLabel"`
	Items        []LineView `json:"items"`
	Total        float64    `json:"total"`
	TotalText    string     `json:"totalText"`
}

// Draft is the order being put together
type Draft struct {
	Items     []LineView `json:"items"`
	Total     float64    `json:"total"`
	TotalText string     `json:"totalText"`
}

// Dashboard holds the headline figures
type Dashboard struct {
	Revenue     float64 `json:"revenue"`
	RevenueText string  `json:"revenueText"`
	Pending     int     `json:"pending"`
	Completed   int     `json:"completed"`
	Orders      int     `json:"orders"`
	MenuItems   int     `json:"menuItems"`
}

type dashboardResponse struct {
	Dashboard Dashboard `json:"dashboard"`
	Degraded  []string  `json:"degraded"`
}

// InsightState is the state of the AI report
type InsightState struct {
	Status      string     `json:"status"`
	Report      string     `json:"report"`
	RequestedAt *time.Time `json:"requestedAt"`
	FinishedAt  *time.Time `json:"finishedAt"`
}

// APIError is returned for any non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// do sends body as JSON and decodes the response into out
func (c *ApiClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := string(data)
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	if err := c.do(http.MethodGet, "/health", nil, nil); err != nil {
		return false, err
	}
	return true, nil
}

func (c *ApiClient) GetDashboard() (*Dashboard, []string, error) {
	var resp dashboardResponse
	if err := c.do(http.MethodGet, "/api/v1/dashboard", nil, &resp); err != nil {
		return nil, nil, err
	}
	return &resp.Dashboard, resp.Degraded, nil
}

func (c *ApiClient) GetMenu() ([]MenuItem, error) {
	var menu []MenuItem
	err := c.do(http.MethodGet, "/api/v1/menu", nil, &menu)
	return menu, err
}

func (c *ApiClient) CreateMenuItem(name string, price float64) (*MenuItem, error) {
	var item MenuItem
	body := map[string]interface{}{"name": name, "price": price}
	if err := c.do(http.MethodPost, "/api/v1/menu", body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *ApiClient) DeleteMenuItem(id string) error {
	return c.do(http.MethodDelete, "/api/v1/menu/"+id, nil, nil)
}

func (c *ApiClient) GetOrders() ([]OrderView, error) {
	var orders []OrderView
	err := c.do(http.MethodGet, "/api/v1/orders", nil, &orders)
	return orders, err
}

func (c *ApiClient) ToggleOrder(id string) (*Order, error) {
	var order Order
	if err := c.do(http.MethodPost, "/api/v1/orders/"+id+"/toggle", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *ApiClient) DeleteOrder(id string) error {
	return c.do(http.MethodDelete, "/api/v1/orders/"+id, nil, nil)
}

func (c *ApiClient) GetDraft() (*Draft, error) {
	var draft Draft
	if err := c.do(http.MethodGet, "/api/v1/draft", nil, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *ApiClient) AddToDraft(foodID string, quantity int) (*Draft, error) {
	var draft Draft
	body := OrderItem{FoodID: foodID, Quantity: quantity}
	if err := c.do(http.MethodPost, "/api/v1/draft/items", body, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *ApiClient) RemoveDraftLine(index int) (*Draft, error) {
	var draft Draft
	if err := c.do(http.MethodDelete, fmt.Sprintf("/api/v1/draft/items/%d", index), nil, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *ApiClient) SubmitDraft(customerName string) (*Order, error) {
	var order Order
	body := map[string]string{"customerName": customerName}
	if err := c.do(http.MethodPost, "/api/v1/draft/submit", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *ApiClient) GetInsights() (*InsightState, error) {
	var state InsightState
	if err := c.do(http.MethodGet, "/api/v1/insights", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// RequestInsights starts a report. A 409 means one is already running and
// is reported as its current state.
func (c *ApiClient) RequestInsights() (*InsightState, error) {
	var state InsightState
	err := c.do(http.MethodPost, "/api/v1/insights", nil, &state)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		return c.GetInsights()
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}
