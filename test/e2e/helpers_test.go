//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

// Environment variable names for E2E test configuration.
const (
	EnvServerURL = "INTEGRATION_SERVER_URL"
)

// Default configuration values.
const (
	DefaultServerURL = "http://localhost:8080"
	DefaultTimeout   = 15 * time.Second
)

// getEnvOrDefault returns the value of the environment variable
// identified by key, or defaultVal if the variable is not set.
func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// e2eServerURL returns the base URL of the server under test.
func e2eServerURL() string {
	return getEnvOrDefault(EnvServerURL, DefaultServerURL)
}

// skipIfServerUnavailable checks whether the server is reachable
// and skips the test if it is not.
func skipIfServerUnavailable(t *testing.T) {
	t.Helper()

	base := e2eServerURL()
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(base + "/health")
	if err != nil {
		t.Skipf("Server unavailable at %s: %v", base, err)
	}
	resp.Body.Close()
}

// newHTTPClient returns an *http.Client with a sensible timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// apiResponse is a generic API response envelope.
type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// itemRecord represents an inventory item returned by the API.
type itemRecord struct {
	Type      string  `json:"type"`
	ID        *int    `json:"id"`
	Title     *string `json:"title"`
	Author    *string `json:"author,omitempty"`
	Pages     *int    `json:"pages,omitempty"`
	Publisher *string `json:"publisher,omitempty"`
	Volume    *int    `json:"volume,omitempty"`
	Borrowed  bool    `json:"is_borrowed"`
}

// statsResponse represents the inventory counters returned by the API.
type statsResponse struct {
	Total     int `json:"total"`
	Available int `json:"available"`
	Borrowed  int `json:"borrowed"`
}

// bookRequest is the payload for adding a book.
type bookRequest struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Pages  int    `json:"pages"`
}

// journalRequest is the payload for adding a journal.
type journalRequest struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Volume    int    `json:"volume"`
}

// jsonHeaders returns the headers used for mutation requests.
func jsonHeaders() map[string]string {
	return map[string]string{"Content-Type": "application/json"}
}

// doRequest performs an HTTP request and returns status code and body.
func doRequest(
	t *testing.T,
	client *http.Client,
	method, url string,
	body io.Reader,
	headers map[string]string,
) (int, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}

	return resp.StatusCode, respBody
}

// addBook is a helper that creates a book and returns its parsed
// record. It fails the test on error.
func addBook(
	t *testing.T,
	client *http.Client,
	base string,
	book bookRequest,
) itemRecord {
	t.Helper()

	payload, _ := json.Marshal(book)
	status, body := doRequest(
		t, client, http.MethodPost,
		base+"/api/v1/items/books",
		bytes.NewReader(payload), jsonHeaders(),
	)

	if status != http.StatusCreated {
		t.Fatalf(
			"addBook: expected 201, got %d. Body: %s",
			status, body,
		)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("addBook: failed to parse response: %v", err)
	}

	var created itemRecord
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("addBook: failed to parse item: %v", err)
	}

	return created
}

// addJournal is a helper that creates a journal and returns its parsed
// record. It fails the test on error.
func addJournal(
	t *testing.T,
	client *http.Client,
	base string,
	journal journalRequest,
) itemRecord {
	t.Helper()

	payload, _ := json.Marshal(journal)
	status, body := doRequest(
		t, client, http.MethodPost,
		base+"/api/v1/items/journals",
		bytes.NewReader(payload), jsonHeaders(),
	)

	if status != http.StatusCreated {
		t.Fatalf(
			"addJournal: expected 201, got %d. Body: %s",
			status, body,
		)
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("addJournal: failed to parse response: %v", err)
	}

	var created itemRecord
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		t.Fatalf("addJournal: failed to parse item: %v", err)
	}

	return created
}

// deleteItem is a helper that deletes an item by id.
func deleteItem(
	t *testing.T,
	client *http.Client,
	base string,
	id int,
) {
	t.Helper()

	url := fmt.Sprintf("%s/api/v1/items/%d", base, id)
	status, body := doRequest(
		t, client, http.MethodDelete, url, nil, nil,
	)

	if status != http.StatusOK {
		t.Logf(
			"deleteItem cleanup: expected 200, got %d. Body: %s",
			status, body,
		)
	}
}
