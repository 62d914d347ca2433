package dydx

import (
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/sha512"
	"fmt"
	"math/big"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/pbkdf2"
)

// bip39Rounds and bip39KeyLen are the PBKDF2 parameters fixed by BIP-39 for
// mnemonic-to-seed derivation.
const (
	bip39Rounds = 2048
	bip39KeyLen = 64
)

// hardened marks a hardened index in a BIP-32 derivation path.
const hardened uint32 = 1 << 31

// cosmosHDPath is the standard Cosmos derivation path m/44'/118'/0'/0/0.
var cosmosHDPath = []uint32{44 | hardened, 118 | hardened, 0 | hardened, 0, 0}

// Wallet holds the process-scoped signing identity: the trading address, the
// secp256k1 key derived from the account mnemonic, and the per-account
// transaction sequence. The sequence is owned exclusively by the wallet and
// mutated only inside Submit.
type Wallet struct {
	address string
	privKey *ecdsa.PrivateKey

	mu       sync.Mutex
	sequence uint64
}

// NewWallet derives the signing key from a BIP-39 mnemonic over the standard
// Cosmos HD path and pairs it with the account address supplied alongside the
// mnemonic in the credential secret.
func NewWallet(mnemonic, address string) (*Wallet, error) {
	if mnemonic == "" || address == "" {
		return nil, fmt.Errorf("dydx: wallet requires both mnemonic and address")
	}

	seed := pbkdf2.Key([]byte(mnemonic), []byte("mnemonic"), bip39Rounds, bip39KeyLen, sha512.New)

	priv, err := derivePrivateKey(seed, cosmosHDPath)
	if err != nil {
		return nil, fmt.Errorf("dydx: derive signing key: %w", err)
	}

	return &Wallet{
		address: address,
		privKey: priv,
	}, nil
}

// Address returns the trading account address.
func (w *Wallet) Address() string {
	return w.address
}

// Sequence returns the current per-account sequence value without consuming it.
func (w *Wallet) Sequence() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sequence
}

// SetSequence overwrites the sequence, e.g. after syncing with the chain's
// account state at startup.
func (w *Wallet) SetSequence(seq uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sequence = seq
}

// Submit runs fn with the current sequence value while holding the wallet
// lock, then increments the sequence by exactly one. The increment is
// unconditional: it happens whether or not fn succeeded, mirroring the
// exchange client's behavior. A silently failed broadcast can therefore
// desynchronize the local sequence from the chain; callers should log fn's
// error rather than retry.
func (w *Wallet) Submit(fn func(sequence uint64) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	err := fn(w.sequence)
	w.sequence++
	return err
}

// Sign produces a compact 64-byte secp256k1 signature (r || s) over a
// 32-byte digest.
func (w *Wallet) Sign(digest []byte) ([]byte, error) {
	sig, err := ethcrypto.Sign(digest, w.privKey)
	if err != nil {
		return nil, fmt.Errorf("dydx: sign: %w", err)
	}
	// Drop the recovery byte; the chain verifies against the public key.
	return sig[:64], nil
}

// PubKey returns the compressed public key for inclusion in the transaction
// envelope.
func (w *Wallet) PubKey() []byte {
	return ethcrypto.CompressPubkey(&w.privKey.PublicKey)
}

// derivePrivateKey walks a BIP-32 derivation path from the master key
// produced by the given seed.
func derivePrivateKey(seed []byte, path []uint32) (*ecdsa.PrivateKey, error) {
	mac := hmac.New(sha512.New, []byte("Bitcoin seed"))
	mac.Write(seed)
	sum := mac.Sum(nil)

	key := sum[:32]
	chainCode := sum[32:]

	var err error
	for _, index := range path {
		key, chainCode, err = deriveChild(key, chainCode, index)
		if err != nil {
			return nil, err
		}
	}

	return ethcrypto.ToECDSA(key)
}

// deriveChild performs one BIP-32 CKDpriv step.
func deriveChild(key, chainCode []byte, index uint32) ([]byte, []byte, error) {
	var data []byte
	if index >= hardened {
		data = append([]byte{0x00}, key...)
	} else {
		priv, err := ethcrypto.ToECDSA(key)
		if err != nil {
			return nil, nil, err
		}
		data = ethcrypto.CompressPubkey(&priv.PublicKey)
	}
	data = append(data,
		byte(index>>24), byte(index>>16), byte(index>>8), byte(index))

	mac := hmac.New(sha512.New, chainCode)
	mac.Write(data)
	sum := mac.Sum(nil)

	curveOrder := ethcrypto.S256().Params().N
	childKey := new(big.Int).SetBytes(sum[:32])
	if childKey.Cmp(curveOrder) >= 0 {
		return nil, nil, fmt.Errorf("dydx: derived key out of curve order at index %d", index)
	}
	childKey.Add(childKey, new(big.Int).SetBytes(key))
	childKey.Mod(childKey, curveOrder)
	if childKey.Sign() == 0 {
		return nil, nil, fmt.Errorf("dydx: derived zero key at index %d", index)
	}

	childBytes := make([]byte, 32)
	childKey.FillBytes(childBytes)
	return childBytes, sum[32:], nil
}
