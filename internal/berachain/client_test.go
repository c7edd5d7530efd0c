package berachain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url,
		WithTimeout(2*time.Second),
		WithRetryCount(2),
		WithRetryWait(time.Millisecond, 5*time.Millisecond),
	)
}

func TestClient_CurrentPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.OperationName != "GetCurrentPrices" {
			t.Errorf("expected GetCurrentPrices, got %s", req.OperationName)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"tokenGetCurrentPrices":[
			{"address":"0x0000000000000000000000000000000000000000","price":2.5,"updatedAt":1700000000},
			{"address":"0xAC03CABA51E17C86C921E1F6CBFBDC91F8BB2E6B","price":3,"updatedAt":1700000000}
		]}}`))
	}))
	defer server.Close()

	prices, err := newTestClient(server.URL).CurrentPrices(context.Background())
	if err != nil {
		t.Fatalf("CurrentPrices: %v", err)
	}

	if prices["0x0000000000000000000000000000000000000000"] != 2.5 {
		t.Errorf("expected BERA 2.5, got %v", prices)
	}
	if prices["0xac03caba51e17c86c921e1f6cbfbdc91f8bb2e6b"] != 3 {
		t.Errorf("expected addresses to be lower-cased, got %v", prices)
	}
}

func TestClient_HistoricalPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		addrs, _ := req.Variables["addresses"].([]interface{})
		if len(addrs) != 1 || addrs[0] != "0xabc" {
			t.Errorf("expected lower-cased address variable, got %v", req.Variables)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"tokenGetHistoricalPrices":[
			{"address":"0xABC","prices":[
				{"price":1.5,"timestamp":"1700000100","updatedAt":1700000150},
				{"price":1.2,"timestamp":1700000000,"updatedAt":null}
			]}
		]}}`))
	}))
	defer server.Close()

	history, err := newTestClient(server.URL).HistoricalPrices(context.Background(), []string{"0xABC"})
	if err != nil {
		t.Fatalf("HistoricalPrices: %v", err)
	}

	points := history["0xabc"]
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Timestamp != 1700000100 || points[0].Price != 1.5 || points[0].UpdatedAt != 1700000150 {
		t.Errorf("unexpected first point %+v", points[0])
	}
	if points[1].Timestamp != 1700000000 || points[1].UpdatedAt != 0 {
		t.Errorf("unexpected second point %+v", points[1])
	}
}

func TestClient_GraphQLErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"bad field"}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CurrentPrices(context.Background())
	if !errors.Is(err, ErrGraphQL) {
		t.Fatalf("expected ErrGraphQL, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected 1 call, got %d", calls.Load())
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"tokenGetCurrentPrices":[]}}`))
	}))
	defer server.Close()

	prices, err := newTestClient(server.URL).CurrentPrices(context.Background())
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(prices) != 0 {
		t.Errorf("expected empty map, got %v", prices)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 calls, got %d", calls.Load())
	}
}

func TestClient_StatusErrorAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).CurrentPrices(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestFlexInt(t *testing.T) {
	var v struct {
		A flexInt `json:"a"`
		B flexInt `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"42","b":7}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != 42 || v.B != 7 {
		t.Errorf("unexpected values %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a":"x"}`), &v); err == nil {
		t.Error("expected error for non-numeric string")
	}
}
