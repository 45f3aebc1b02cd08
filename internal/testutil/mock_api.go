// Package testutil provides a mock product API for tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// CartRequest is a decoded POST /api/cart body.
type CartRequest struct {
	ID          string `json:"id"`
	ColorCode   int    `json:"colorCode"`
	StorageCode int    `json:"storageCode"`
}

// MockAPI is a configurable mock of the product API.
//
// By default it serves the products registered with AddProduct on
// GET /api/product and GET /api/product/{id} (404 for unknown ids), and
// answers POST /api/cart with a count that grows by one per request.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	products []map[string]any
	count    int
	fixed    *int

	requests     map[string]int
	cartRequests []CartRequest
}

// NewMockAPI creates and starts a new mock API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		requests: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests[r.Method+" "+r.URL.Path]++
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = make(map[string]int)
	m.cartRequests = nil
}

// AddProduct registers a product DTO. It must contain an "id" string.
func (m *MockAPI) AddProduct(dto map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append(m.products, dto)
}

// SetCartCount makes POST /api/cart always answer with count.
func (m *MockAPI) SetCartCount(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixed = &count
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// RequestCount returns the number of requests made for method and path,
// e.g. RequestCount("GET", "/api/product").
func (m *MockAPI) RequestCount(method, path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[method+" "+path]
}

// TotalRequests returns the number of requests made to the server.
func (m *MockAPI) TotalRequests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, n := range m.requests {
		total += n
	}
	return total
}

// CartRequests returns the decoded POST /api/cart bodies in arrival order.
func (m *MockAPI) CartRequests() []CartRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]CartRequest(nil), m.cartRequests...)
}

func (m *MockAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/product":
		m.mu.RLock()
		products := m.products
		if products == nil {
			products = []map[string]any{}
		}
		body, err := json.Marshal(products)
		m.mu.RUnlock()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, `{"error": "encode products"}`)
			return
		}
		writeJSON(w, http.StatusOK, string(body))

	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/product/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/product/")
		m.mu.RLock()
		var found map[string]any
		for _, p := range m.products {
			if p["id"] == id {
				found = p
				break
			}
		}
		m.mu.RUnlock()
		if found == nil {
			writeJSON(w, http.StatusNotFound, `{"message": "Product not found"}`)
			return
		}
		body, _ := json.Marshal(found)
		writeJSON(w, http.StatusOK, string(body))

	case r.Method == http.MethodPost && r.URL.Path == "/api/cart":
		var req CartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, `{"message": "invalid body"}`)
			return
		}
		m.mu.Lock()
		m.cartRequests = append(m.cartRequests, req)
		m.count++
		count := m.count
		if m.fixed != nil {
			count = *m.fixed
		}
		m.mu.Unlock()
		body, _ := json.Marshal(map[string]int{"count": count})
		writeJSON(w, http.StatusOK, string(body))

	default:
		writeJSON(w, http.StatusNotFound, `{"message": "Not found"}`)
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewStatusResponse creates an empty-bodied response with the given status.
func NewStatusResponse(status int) MockResponse {
	return MockResponse{StatusCode: status}
}

// SampleProduct returns a full product DTO as the API would send it.
func SampleProduct(id, brand, model, price string) map[string]any {
	return map[string]any{
		"id":                id,
		"brand":             brand,
		"model":             model,
		"price":             price,
		"imgUrl":            "https://example.com/" + id + ".jpg",
		"networkTechnology": "GSM / HSPA / LTE / 5G",
		"networkSpeed":      "HSPA, LTE-A, 5G",
		"gprs":              "Yes",
		"edge":              "Yes",
		"announced":         "2021, September 14",
		"status":            "Available",
		"dimentions":        "146.7 x 71.5 x 7.7 mm",
		"weight":            "174",
		"sim":               "Nano-SIM and eSIM",
		"displayType":       "Super Retina XDR OLED",
		"displayResolution": "1170 x 2532 pixels",
		"displaySize":       "6.1 inches",
		"os":                "iOS 15",
		"cpu":               "Hexa-core",
		"chipset":           "Apple A15 Bionic",
		"gpu":               "Apple GPU",
		"externalMemory":    "No",
		"internalMemory":    []string{"128 GB", "256 GB"},
		"ram":               "4 GB RAM",
		"primaryCamera":     "12 MP",
		"secondaryCmera":    "12 MP",
		"speaker":           "Yes",
		"audioJack":         "No",
		"wlan":              []string{"Wi-Fi 802.11 a/b/g/n/ac/6"},
		"bluetooth":         "5.0",
		"gps":               "Yes",
		"nfc":               "Yes",
		"radio":             "No",
		"usb":               "Lightning",
		"sensors":           "Face ID",
		"battery":           "3240 mAh",
		"colors": []map[string]any{
			{"code": 1000, "name": "Black"},
			{"code": 1001, "name": "White"},
		},
		"options": map[string]any{
			"colors": []map[string]any{
				{"code": 1000, "name": "Black"},
				{"code": 1001, "name": "White"},
			},
			"storages": []map[string]any{
				{"code": 2000, "name": "128 GB"},
				{"code": 2001, "name": "256 GB"},
			},
		},
	}
}
