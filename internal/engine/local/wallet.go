package local

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"github.com/vigcoin/cryptonotewallet/internal/crypto"
	"github.com/vigcoin/cryptonotewallet/internal/engine"
)

// FormatVersion is the current wallet file format.
const FormatVersion = 1

// maxWalletSize bounds how much InitAndLoad reads.
const maxWalletSize = 64 << 20

// envelope is the on-disk form. The address is kept outside the encrypted
// payload so tools can identify a wallet without its password.
type envelope struct {
	Version   int    `json:"version"`
	Encrypted bool   `json:"encrypted"`
	Address   string `json:"address"`
	Payload   []byte `json:"payload"`
}

// walletState is the payload.
type walletState struct {
	Mnemonic     string               `json:"mnemonic"`
	Address      string               `json:"address"`
	CreatedAt    time.Time            `json:"created_at"`
	Height       uint64               `json:"height"`
	Actual       uint64               `json:"actual_balance"`
	Pending      uint64               `json:"pending_balance"`
	Transactions []engine.Transaction `json:"transactions,omitempty"`
	Transfers    []engine.Transfer    `json:"transfers,omitempty"`
}

func (w *walletState) clone(details, cache bool) *walletState {
	c := *w
	if details {
		c.Transactions = append([]engine.Transaction(nil), w.Transactions...)
		c.Transfers = append([]engine.Transfer(nil), w.Transfers...)
	} else {
		c.Transactions = nil
		c.Transfers = nil
	}
	if !cache {
		c.Height = 0
	}
	return &c
}

func generateWallet() (*walletState, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return nil, engine.NewError(engine.CodeInternal, fmt.Sprintf("generating entropy: %v", err))
	}
	defer crypto.Zero(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, engine.NewError(engine.CodeInternal, fmt.Sprintf("generating mnemonic: %v", err))
	}

	address, err := addressFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	return &walletState{
		Mnemonic:  mnemonic,
		Address:   address,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// addressFromMnemonic derives the wallet address: the Base58 form of the
// BIP32 master public key.
func addressFromMnemonic(mnemonic string) (string, error) {
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return "", engine.NewError(engine.CodeCorruptedWallet, fmt.Sprintf("invalid mnemonic: %v", err))
	}
	defer crypto.Zero(seed)

	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return "", engine.NewError(engine.CodeInternal, fmt.Sprintf("deriving master key: %v", err))
	}
	return master.PublicKey().B58Serialize(), nil
}

// ValidateAddress reports whether addr is a well-formed wallet address.
func ValidateAddress(addr string) error {
	if addr == "" {
		return engine.NewError(engine.CodeBadAddress, "empty address")
	}
	key, err := bip32.B58Deserialize(addr)
	if err != nil {
		return engine.NewError(engine.CodeBadAddress, err.Error())
	}
	if key.IsPrivate {
		return engine.NewError(engine.CodeBadAddress, "private key given as address")
	}
	return nil
}

// encodeWallet serializes w, encrypting the payload when password is set.
func encodeWallet(w *walletState, password string) ([]byte, error) {
	payload, err := json.Marshal(w)
	if err != nil {
		return nil, engine.NewError(engine.CodeInternal, fmt.Sprintf("encoding wallet: %v", err))
	}

	env := envelope{Version: FormatVersion, Address: w.Address, Payload: payload}
	if password != "" {
		defer crypto.Zero(payload)
		env.Payload, err = crypto.Encrypt(payload, password)
		if err != nil {
			return nil, engine.NewError(engine.CodeInternal, fmt.Sprintf("encrypting wallet: %v", err))
		}
		env.Encrypted = true
	}

	return json.MarshalIndent(env, "", "  ")
}

// decodeWallet reads a wallet document. A password that does not match the
// file, including a password given for an unencrypted file and vice versa,
// yields CodeWrongPassword.
func decodeWallet(r io.Reader, password string) (*walletState, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxWalletSize))
	if err != nil {
		return nil, engine.NewError(engine.CodeInternal, fmt.Sprintf("reading wallet: %v", err))
	}

	var env envelope
	if err = json.Unmarshal(data, &env); err != nil {
		return nil, engine.NewError(engine.CodeCorruptedWallet, err.Error())
	}
	if env.Version != FormatVersion {
		return nil, engine.NewError(engine.CodeCorruptedWallet, fmt.Sprintf("unsupported version %d", env.Version))
	}
	if env.Encrypted != (password != "") {
		return nil, engine.ErrWrongPassword
	}

	payload := env.Payload
	if env.Encrypted {
		payload, err = crypto.Decrypt(env.Payload, password)
		if errors.Is(err, crypto.ErrWrongPassword) {
			return nil, engine.ErrWrongPassword
		}
		if err != nil {
			return nil, engine.NewError(engine.CodeCorruptedWallet, err.Error())
		}
		defer crypto.Zero(payload)
	}

	var w walletState
	if err = json.Unmarshal(payload, &w); err != nil {
		return nil, engine.NewError(engine.CodeCorruptedWallet, err.Error())
	}

	address, err := addressFromMnemonic(w.Mnemonic)
	if err != nil {
		return nil, err
	}
	if address != w.Address || address != env.Address {
		return nil, engine.NewError(engine.CodeCorruptedWallet, "address does not match keys")
	}
	return &w, nil
}

// ReadAddress returns the address recorded in a wallet document without
// decrypting it.
func ReadAddress(r io.Reader) (string, error) {
	var env envelope
	if err := json.NewDecoder(io.LimitReader(r, maxWalletSize)).Decode(&env); err != nil {
		return "", engine.NewError(engine.CodeCorruptedWallet, err.Error())
	}
	return env.Address, nil
}
