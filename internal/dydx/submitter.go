package dydx

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/avelex/tradehook/internal/domain"
)

// Broadcaster is the node surface the submitter needs.
type Broadcaster interface {
	BroadcastTx(ctx context.Context, txBytes []byte) (domain.OrderResult, error)
}

// Submitter signs order descriptors with the process wallet and broadcasts
// them to the exchange node. Each call consumes exactly one sequence value;
// the wallet lock serializes concurrent submissions so the read-sign-submit
// unit is atomic with respect to the sequence.
type Submitter struct {
	wallet  *Wallet
	node    Broadcaster
	chainID string
	logger  *slog.Logger
}

// NewSubmitter creates a Submitter bound to the given wallet and node.
func NewSubmitter(wallet *Wallet, node Broadcaster, chainID string, logger *slog.Logger) *Submitter {
	return &Submitter{
		wallet:  wallet,
		node:    node,
		chainID: chainID,
		logger:  logger.With(slog.String("component", "submitter")),
	}
}

// orderPayload is the canonical wire form of one short-term order placement.
type orderPayload struct {
	Address      string             `json:"address"`
	Subaccount   int                `json:"subaccount"`
	ClientID     uint32             `json:"clientId"`
	ClobPairID   uint32             `json:"clobPairId"`
	Side         domain.OrderSide   `json:"side"`
	Quantums     uint64             `json:"quantums"`
	Subticks     uint64             `json:"subticks"`
	GoodTilBlock uint32             `json:"goodTilBlock"`
	TimeInForce  domain.TimeInForce `json:"timeInForce"`
	ReduceOnly   bool               `json:"reduceOnly"`
}

// signDoc is the digest input: the order payload bound to the chain and the
// account sequence so a transaction cannot be replayed.
type signDoc struct {
	ChainID  string       `json:"chainId"`
	Sequence uint64       `json:"sequence"`
	Order    orderPayload `json:"order"`
}

// txEnvelope is the broadcast form: payload plus authentication.
type txEnvelope struct {
	Order     orderPayload `json:"order"`
	Sequence  uint64       `json:"sequence"`
	PubKey    string       `json:"pubKey"`    // base64 compressed secp256k1
	Signature string       `json:"signature"` // base64 r||s
}

// SubmitOrder signs and broadcasts one order using the current account
// sequence, then advances the sequence by exactly one. The increment happens
// whether or not the broadcast succeeded; a failed broadcast is logged and
// the error propagated without retry.
func (s *Submitter) SubmitOrder(ctx context.Context, subaccount int, order domain.OrderDescriptor) (domain.OrderResult, error) {
	var result domain.OrderResult

	err := s.wallet.Submit(func(sequence uint64) error {
		payload := orderPayload{
			Address:      s.wallet.Address(),
			Subaccount:   subaccount,
			ClientID:     order.ClientID,
			ClobPairID:   order.ClobPairID,
			Side:         order.Side,
			Quantums:     order.Quantums,
			Subticks:     order.Subticks,
			GoodTilBlock: order.GoodTilBlock,
			TimeInForce:  order.TimeInForce,
			ReduceOnly:   order.ReduceOnly,
		}

		docBytes, err := json.Marshal(signDoc{
			ChainID:  s.chainID,
			Sequence: sequence,
			Order:    payload,
		})
		if err != nil {
			return fmt.Errorf("dydx: marshal sign doc: %w", err)
		}

		digest := sha256.Sum256(docBytes)
		sig, err := s.wallet.Sign(digest[:])
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrSigningFailed, err)
		}

		txBytes, err := json.Marshal(txEnvelope{
			Order:     payload,
			Sequence:  sequence,
			PubKey:    base64.StdEncoding.EncodeToString(s.wallet.PubKey()),
			Signature: base64.StdEncoding.EncodeToString(sig),
		})
		if err != nil {
			return fmt.Errorf("dydx: marshal tx: %w", err)
		}

		result, err = s.node.BroadcastTx(ctx, txBytes)
		if err != nil {
			// The sequence still advances after this return; if the node
			// silently dropped the tx the local counter is now ahead of
			// the chain until the process restarts.
			s.logger.WarnContext(ctx, "broadcast failed, sequence advances regardless",
				slog.Uint64("sequence", sequence),
				slog.String("error", err.Error()),
			)
			return err
		}

		s.logger.InfoContext(ctx, "order submitted",
			slog.Uint64("sequence", sequence),
			slog.String("tx_hash", result.TxHash),
			slog.String("side", string(order.Side)),
			slog.Uint64("quantums", order.Quantums),
			slog.Uint64("good_til_block", uint64(order.GoodTilBlock)),
		)
		return nil
	})

	return result, err
}
