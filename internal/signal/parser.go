// Package signal extracts a normalized trade instruction from the two request
// shapes TradingView-style webhooks deliver: URL query parameters and a JSON
// body. Field absence is a representable state, not an error; parsing never
// fails, it just leaves fields empty.
package signal

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/avelex/tradehook/internal/domain"
)

// perpSuffix is the perpetual-contract token appended by charting platforms,
// e.g. "ETHUSD.P". spotSuffix is the exchange's expected spot-pair form.
const (
	perpSuffix = "USD.P"
	spotSuffix = "-USD"
)

// bodyFields mirrors the JSON body shape. All fields are optional strings
// except order_size, which some senders emit as a bare number.
type bodyFields struct {
	OrderStrategy string          `json:"order_strategy"`
	SignalTime    string          `json:"signal_time"`
	SignalPrice   string          `json:"signal_price"`
	OrderSide     string          `json:"order_side"`
	OrderSize     json.RawMessage `json:"order_size"`
	MarketPair    string          `json:"market_pair"`
}

// Parse extracts a TradingSignal from the query parameters and/or JSON body
// of one webhook delivery. Query parameters are extracted first when they
// carry a non-empty side; a JSON body carrying a non-empty side then
// overwrites every field. Missing or malformed fields never abort parsing:
// the signal keeps whatever was already populated.
func Parse(query url.Values, body []byte) domain.TradingSignal {
	var sig domain.TradingSignal

	if side := query.Get("order_side"); side != "" {
		sig.Strategy = query.Get("order_strategy")
		sig.SignalTime = query.Get("signal_time")
		sig.SignalPrice = query.Get("signal_price")
		sig.Side = domain.OrderSide(side)
		sig.Size, sig.SizeRaw = parseSize(query.Get("order_size"))
		sig.MarketPair = NormalizePair(query.Get("market_pair"))
	}

	if len(body) > 0 {
		var bf bodyFields
		if err := json.Unmarshal(body, &bf); err == nil && bf.OrderSide != "" {
			sig.Strategy = bf.OrderStrategy
			sig.SignalTime = bf.SignalTime
			sig.SignalPrice = bf.SignalPrice
			sig.Side = domain.OrderSide(bf.OrderSide)
			sig.Size, sig.SizeRaw = parseSize(rawString(bf.OrderSize))
			sig.MarketPair = NormalizePair(bf.MarketPair)
		}
	}

	return sig
}

// NormalizePair turns a charting-platform pair symbol into the exchange's
// spot form: the perpetual suffix is stripped and the spot suffix appended
// when not already present. The transform is idempotent, so an
// already-normalized pair passes through unchanged.
func NormalizePair(pair string) string {
	if pair == "" {
		return ""
	}
	pair = strings.TrimSuffix(pair, perpSuffix)
	if strings.HasSuffix(pair, spotSuffix) {
		return pair
	}
	return pair + spotSuffix
}

// parseSize converts the size field to a float and its canonical string form.
// An unparseable size leaves both zero-valued.
func parseSize(raw string) (float64, string) {
	if raw == "" {
		return 0, ""
	}
	size, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ""
	}
	return size, strconv.FormatFloat(size, 'f', -1, 64)
}

// rawString unquotes a JSON value that may be either a string or a number.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
