package dydx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLatestBlockHeight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cosmos/base/tendermint/v1beta1/blocks/latest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"block":{"header":{"height":"123456"}}}`))
	}))
	defer srv.Close()

	c := NewNodeClient(srv.URL)
	h, err := c.LatestBlockHeight(context.Background())
	if err != nil {
		t.Fatalf("LatestBlockHeight: %v", err)
	}
	if h != 123456 {
		t.Fatalf("height = %d, want 123456", h)
	}
}

func TestBroadcastTx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TxBytes string `json:"tx_bytes"`
			Mode    string `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode broadcast request: %v", err)
		}
		if req.TxBytes == "" || req.Mode != "BROADCAST_MODE_SYNC" {
			t.Errorf("unexpected broadcast request: %+v", req)
		}
		w.Write([]byte(`{"tx_response":{"txhash":"ABC123","code":0,"raw_log":""}}`))
	}))
	defer srv.Close()

	c := NewNodeClient(srv.URL)
	res, err := c.BroadcastTx(context.Background(), []byte(`{"order":{}}`))
	if err != nil {
		t.Fatalf("BroadcastTx: %v", err)
	}
	if res.TxHash != "ABC123" || res.Code != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestBroadcastTxRejectedCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"tx_response":{"txhash":"DEF456","code":32,"raw_log":"account sequence mismatch"}}`))
	}))
	defer srv.Close()

	c := NewNodeClient(srv.URL)
	res, err := c.BroadcastTx(context.Background(), []byte(`{}`))
	if err == nil {
		t.Fatalf("non-zero code must be an error")
	}
	if res.Code != 32 {
		t.Fatalf("result code = %d, want 32", res.Code)
	}
}
