package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/equipartition/internal/api"
	"github.com/eugenenazirov/equipartition/internal/partition"
	"github.com/eugenenazirov/equipartition/internal/storage"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	store := storage.NewMemoryStorage(storage.DefaultCapacity)
	handler := api.NewHandler(partition.New(partition.WithMaxSteps(100_000)), store,
		api.WithLogger(zaptest.NewLogger(t)),
	)
	logger := zaptest.NewLogger(t)
	return api.NewRouter(handler, logger)
}

func performRequest(t *testing.T, handler http.Handler, method, target string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestIntegrationFlow(t *testing.T) {
	handler := newRouter(t)
	jsonHeaders := map[string]string{"Content-Type": "application/json"}

	rec := performRequest(t, handler, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", rec.Code)
	}

	values := []int64{7, 3, 5, 1, 2, 4, 6, 8}
	payload, _ := json.Marshal(map[string]any{"values": values})
	rec = performRequest(t, handler, http.MethodPost, "/api/partition", payload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from partition, got %d", rec.Code)
	}

	var found struct {
		Left     []int64 `json:"left"`
		Right    []int64 `json:"right"`
		LeftSum  int64   `json:"leftSum"`
		RightSum int64   `json:"rightSum"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&found); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if found.LeftSum != 18 || found.RightSum != 18 {
		t.Fatalf("expected both sides to sum to 18, got %d and %d", found.LeftSum, found.RightSum)
	}

	all := append(slices.Clone(found.Left), found.Right...)
	slices.Sort(all)
	want := slices.Clone(values)
	slices.Sort(want)
	if !slices.Equal(all, want) {
		t.Fatalf("partition %v / %v does not preserve %v", found.Left, found.Right, values)
	}

	verifyPayload, _ := json.Marshal(map[string]any{"values": values, "left": found.Left, "right": found.Right})
	rec = performRequest(t, handler, http.MethodPost, "/api/partition/verify", verifyPayload, jsonHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from verify, got %d", rec.Code)
	}

	oddPayload, _ := json.Marshal(map[string]any{"values": []int64{1, 2, 3, 4, 5}})
	rec = performRequest(t, handler, http.MethodPost, "/api/partition", oddPayload, jsonHeaders)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for odd total, got %d", rec.Code)
	}
}
