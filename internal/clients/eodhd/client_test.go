package eodhd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL))
}

func TestGetPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/real-time/AAPL.US" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_token") != "test-key" {
			t.Error("api_token not forwarded")
		}
		w.Write([]byte(`{"code":"AAPL.US","close":189.25,"previousClose":187.1,"timestamp":1700000000}`))
	})

	price, err := client.GetPrice(context.Background(), "AAPL.US")
	if err != nil {
		t.Fatalf("GetPrice: %v", err)
	}
	if price != 189.25 {
		t.Errorf("price = %.2f, want 189.25", price)
	}
}

func TestGetPrice_StringClose(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"BHP.AU","close":"45.67"}`))
	})

	price, err := client.GetPrice(context.Background(), "BHP.AU")
	if err != nil {
		t.Fatalf("GetPrice: %v", err)
	}
	if price != 45.67 {
		t.Errorf("price = %.2f, want 45.67", price)
	}
}

func TestGetPrice_PreviousCloseFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"XYZ.US","close":"N/A","previousClose":12.5}`))
	})

	price, err := client.GetPrice(context.Background(), "XYZ.US")
	if err != nil {
		t.Fatalf("GetPrice: %v", err)
	}
	if price != 12.5 {
		t.Errorf("price = %.2f, want 12.50 (previous close)", price)
	}
}

func TestGetPrice_NoUsablePrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"DEAD.US","close":0,"previousClose":0}`))
	})

	if _, err := client.GetPrice(context.Background(), "DEAD.US"); err == nil {
		t.Fatal("expected error for zero prices")
	}
}

func TestGetPrice_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := client.GetPrice(context.Background(), "AAPL.US")
	if err == nil {
		t.Fatal("expected error from 401 response")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", apiErr.StatusCode)
	}
}
