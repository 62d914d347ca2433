package dydx

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"testing"
)

// testMnemonic is the well-known BIP-39 test vector mnemonic. Never fund it.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

const testAddress = "dydx1qqgzqvzq2ps8pqys5zcvp58q7rluhcgl2tx0jq"

func TestNewWalletRequiresBothFields(t *testing.T) {
	if _, err := NewWallet("", testAddress); err == nil {
		t.Fatalf("empty mnemonic must be rejected")
	}
	if _, err := NewWallet(testMnemonic, ""); err == nil {
		t.Fatalf("empty address must be rejected")
	}
}

func TestWalletKeyDerivationIsDeterministic(t *testing.T) {
	w1, err := NewWallet(testMnemonic, testAddress)
	if err != nil {
		t.Fatalf("new wallet: %v", err)
	}
	w2, err := NewWallet(testMnemonic, testAddress)
	if err != nil {
		t.Fatalf("new wallet: %v", err)
	}

	if !bytes.Equal(w1.PubKey(), w2.PubKey()) {
		t.Fatalf("same mnemonic must derive the same key")
	}
	if len(w1.PubKey()) != 33 {
		t.Fatalf("compressed pubkey length = %d, want 33", len(w1.PubKey()))
	}
}

func TestWalletSignProducesCompactSignature(t *testing.T) {
	w, err := NewWallet(testMnemonic, testAddress)
	if err != nil {
		t.Fatalf("new wallet: %v", err)
	}

	digest := sha256.Sum256([]byte("payload"))
	sig, err := w.Sign(digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) != 64 {
		t.Fatalf("signature length = %d, want 64", len(sig))
	}
}

func TestSubmitAdvancesSequenceOncePerAttempt(t *testing.T) {
	w, err := NewWallet(testMnemonic, testAddress)
	if err != nil {
		t.Fatalf("new wallet: %v", err)
	}
	w.SetSequence(5)

	var seen []uint64
	for i := 0; i < 3; i++ {
		err := w.Submit(func(seq uint64) error {
			seen = append(seen, seq)
			return nil
		})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	if w.Sequence() != 8 {
		t.Fatalf("after 3 submissions from 5, sequence = %d, want 8", w.Sequence())
	}
	for i, seq := range seen {
		if seq != uint64(5+i) {
			t.Fatalf("submission %d used sequence %d, want %d (no reuse)", i, seq, 5+i)
		}
	}
}

func TestSubmitIncrementsEvenOnFailure(t *testing.T) {
	w, err := NewWallet(testMnemonic, testAddress)
	if err != nil {
		t.Fatalf("new wallet: %v", err)
	}

	wantErr := errors.New("broadcast failed")
	if err := w.Submit(func(uint64) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("submit must propagate fn's error, got %v", err)
	}
	if w.Sequence() != 1 {
		t.Fatalf("sequence must advance after a failed attempt, got %d", w.Sequence())
	}
}
