package twelvedata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockwatch/internal/provider"
)

func TestFetchBatch_MixedOutcomes(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}
		if r.URL.Path != "/batch" {
			t.Errorf("path = %q, want /batch", r.URL.Path)
		}

		var body map[string]struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode batch body: %v", err)
		}
		if _, ok := body["req_AAPL"]; !ok {
			t.Error("batch body missing req_AAPL sub-request")
		}
		if _, ok := body["req_ZZZZ"]; !ok {
			t.Error("batch body missing req_ZZZZ sub-request")
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"data": {
				"req_AAPL": {
					"status": "success",
					"response": {
						"status": "ok",
						"meta": {"symbol": "AAPL", "currency": "USD"},
						"values": [{"open": "175.50", "close": "178.23"}]
					}
				},
				"req_ZZZZ": {
					"status": "error",
					"response": {"status": "error"}
				}
			}
		}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := New("test_key", server.URL, 5*time.Second)

	outcomes, err := client.FetchBatch(context.Background(), []string{"AAPL", "ZZZZ"})
	if err != nil {
		t.Fatalf("FetchBatch() returned unexpected error: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2 (one per input symbol)", len(outcomes))
	}

	bySymbol := make(map[string]provider.Outcome, len(outcomes))
	for _, o := range outcomes {
		bySymbol[o.Symbol] = o
	}

	aapl, ok := bySymbol["AAPL"]
	if !ok {
		t.Fatal("no outcome associated with AAPL")
	}
	if aapl.Err != nil {
		t.Fatalf("AAPL outcome has error: %v", aapl.Err)
	}
	if aapl.Quote.Price != 178.23 {
		t.Errorf("AAPL price = %v, want 178.23", aapl.Quote.Price)
	}
	if aapl.Quote.Change == nil || *aapl.Quote.Change != 178.23-175.50 {
		t.Errorf("AAPL change = %v, want %v", aapl.Quote.Change, 178.23-175.50)
	}
	if aapl.Quote.PercentChange == nil {
		t.Error("AAPL percentChange is nil, want value")
	}

	zzzz, ok := bySymbol["ZZZZ"]
	if !ok {
		t.Fatal("failed symbol ZZZZ was dropped from the outcomes")
	}
	if zzzz.Err == nil {
		t.Fatal("ZZZZ outcome has no error, want explicit not-found entry")
	}
	if kind := provider.KindOf(zzzz.Err); kind != provider.KindNotFound {
		t.Errorf("ZZZZ error kind = %q, want %q", kind, provider.KindNotFound)
	}
}

func TestFetchBatch_MissingKeyBecomesNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data": {}}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := New("test_key", server.URL, 5*time.Second)

	outcomes, err := client.FetchBatch(context.Background(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("FetchBatch() returned unexpected error: %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("got %d outcomes, want 1", len(outcomes))
	}
	if kind := provider.KindOf(outcomes[0].Err); kind != provider.KindNotFound {
		t.Errorf("error kind = %q, want %q", kind, provider.KindNotFound)
	}
}

func TestFetchBatch_MalformedValuesBecomeUnexpected(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"data": {
				"req_AAPL": {
					"status": "success",
					"response": {
						"status": "ok",
						"meta": {"symbol": "AAPL"},
						"values": [{"open": "oops", "close": "178.23"}]
					}
				}
			}
		}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := New("test_key", server.URL, 5*time.Second)

	outcomes, err := client.FetchBatch(context.Background(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("FetchBatch() returned unexpected error: %v", err)
	}
	// Malformed member data is reported on its own entry, distinct from
	// "no data for this symbol".
	if kind := provider.KindOf(outcomes[0].Err); kind != provider.KindUnexpected {
		t.Errorf("error kind = %q, want %q", kind, provider.KindUnexpected)
	}
}

func TestFetchBatch_OuterFailureIsAtomic(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`upstream unavailable`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := New("test_key", server.URL, 5*time.Second)

	outcomes, err := client.FetchBatch(context.Background(), []string{"AAPL", "MSFT"})
	if err == nil {
		t.Fatal("FetchBatch() returned nil error, want upstream error")
	}
	if outcomes != nil {
		t.Errorf("got %d outcomes alongside outer failure, want none", len(outcomes))
	}
	if kind := provider.KindOf(err); kind != provider.KindUpstream {
		t.Errorf("error kind = %q, want %q", kind, provider.KindUpstream)
	}
}

func TestFetchBatch_Timeout(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"data": {}}`))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	client := New("test_key", server.URL, 20*time.Millisecond)

	_, err := client.FetchBatch(context.Background(), []string{"AAPL"})
	if kind := provider.KindOf(err); kind != provider.KindTimeout {
		t.Errorf("error kind = %q, want %q", kind, provider.KindTimeout)
	}
}
