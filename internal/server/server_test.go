package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/avelex/tradehook/internal/authz"
	"github.com/avelex/tradehook/internal/domain"
	"github.com/avelex/tradehook/internal/dydx"
	"github.com/avelex/tradehook/internal/executor"
	"github.com/avelex/tradehook/internal/notify"
	"github.com/avelex/tradehook/internal/server/handler"
)

type fixedAllowList struct {
	ips []string
}

func (f fixedAllowList) AllowList(ctx context.Context) ([]string, error) {
	return f.ips, nil
}

type fakeExchange struct {
	freeCollateral float64
	height         uint32
	submissions    int
}

func (f *fakeExchange) Subaccount(ctx context.Context, address string, number int) (domain.AccountState, error) {
	return domain.AccountState{FreeCollateral: f.freeCollateral}, nil
}

func (f *fakeExchange) PerpetualMarket(ctx context.Context, ticker string) (dydx.Market, error) {
	return dydx.Market{
		Ticker:                    ticker,
		ClobPairID:                1,
		AtomicResolution:          -9,
		QuantumConversionExponent: -9,
		SubticksPerTick:           100000,
		StepBaseQuantums:          1000000,
	}, nil
}

func (f *fakeExchange) LatestBlockHeight(ctx context.Context) (uint32, error) {
	return f.height, nil
}

func (f *fakeExchange) SubmitOrder(ctx context.Context, subaccount int, order domain.OrderDescriptor) (domain.OrderResult, error) {
	f.submissions++
	return domain.OrderResult{TxHash: "HASH"}, nil
}

type countingSender struct {
	sent int
}

func (c *countingSender) Send(ctx context.Context, msg notify.Message) error {
	c.sent++
	return nil
}

func (c *countingSender) Name() string { return "counting" }

func newTestServer(t *testing.T, ex *fakeExchange, sender *countingSender) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	pipeline := executor.New(executor.Config{
		Address:           "dydx1abc",
		Subaccount:        0,
		FreeCollateralMin: 10.0,
		PriceFloor:        0,
		PriceCeiling:      4000,
		GoodTilBlocks:     10,
	}, ex, ex, ex, ex, executor.RandomID{}, nil, logger)

	notifier := notify.NewNotifier([]notify.Sender{sender}, logger)
	authorizer := authz.New(fixedAllowList{ips: []string{"203.0.113.7"}}, logger)

	return NewServer(
		Config{Port: 8080, ForwardedHeader: "X-Forwarded-For"},
		Handlers{
			Health:  handler.NewHealthHandler(),
			Webhook: handler.NewWebhookHandler(pipeline, notifier, logger),
		},
		authorizer,
		logger,
	)
}

func TestWebhookAuthorizedBuySignal(t *testing.T) {
	ex := &fakeExchange{freeCollateral: 100, height: 200}
	sender := &countingSender{}
	srv := newTestServer(t, ex, sender)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?order_side=buy&order_size=1.5&market_pair=ETHUSD.P&signal_price=3000", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["order_side"] != "buy" || resp["order_size"] != "1.5" || resp["market_pair"] != "ETH-USD" {
		t.Fatalf("unexpected response body: %v", resp)
	}

	if ex.submissions != 1 {
		t.Fatalf("submissions = %d, want exactly 1", ex.submissions)
	}
	if sender.sent != 1 {
		t.Fatalf("notifications = %d, want exactly 1", sender.sent)
	}
}

func TestWebhookUnauthorizedIP(t *testing.T) {
	ex := &fakeExchange{freeCollateral: 100, height: 200}
	sender := &countingSender{}
	srv := newTestServer(t, ex, sender)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?order_side=buy&order_size=1.5&market_pair=ETHUSD.P", nil)
	req.Header.Set("X-Forwarded-For", "192.0.2.99")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ex.submissions != 0 || sender.sent != 0 {
		t.Fatalf("denied request must trigger zero submissions and zero notifications, got %d/%d",
			ex.submissions, sender.sent)
	}
}

func TestWebhookMissingForwardedHeaderDenied(t *testing.T) {
	ex := &fakeExchange{freeCollateral: 100, height: 200}
	sender := &countingSender{}
	srv := newTestServer(t, ex, sender)

	req := httptest.NewRequest(http.MethodGet, "/webhook?order_side=buy", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing forwarding header must be denied, got %d", rec.Code)
	}
}

func TestWebhookSidelessSignalStillNotifies(t *testing.T) {
	ex := &fakeExchange{freeCollateral: 100, height: 200}
	sender := &countingSender{}
	srv := newTestServer(t, ex, sender)

	req := httptest.NewRequest(http.MethodPost, "/webhook",
		strings.NewReader(`{"signal_price":"3000"}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["order_side"] != "" || resp["market_pair"] != "" {
		t.Fatalf("order fields must be empty without a side: %v", resp)
	}
	if ex.submissions != 0 {
		t.Fatalf("submissions = %d, want 0", ex.submissions)
	}
	if sender.sent != 1 {
		t.Fatalf("notifications = %d, want exactly 1", sender.sent)
	}
}

func TestWebhookBodyOverridesQuery(t *testing.T) {
	ex := &fakeExchange{freeCollateral: 100, height: 200}
	sender := &countingSender{}
	srv := newTestServer(t, ex, sender)

	req := httptest.NewRequest(http.MethodPost,
		"/webhook?order_side=buy&order_size=1&market_pair=ETHUSD.P",
		strings.NewReader(`{"order_side":"sell","order_size":"2","market_pair":"BTCUSD.P"}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["order_side"] != "sell" || resp["market_pair"] != "BTC-USD" {
		t.Fatalf("body fields must win: %v", resp)
	}
}

func TestHealthEndpointRequiresAuthorization(t *testing.T) {
	srv := newTestServer(t, &fakeExchange{}, &countingSender{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}
}
