package wallet

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/AraBlocks/TinyAra/internal/securestore"
)

const keystoreVersion = 1

var (
	ErrKeystoreAuth    = errors.New("keystore passphrase rejected")
	ErrKeystoreInvalid = errors.New("keystore is invalid")
)

type keystoreFile struct {
	Version int                   `json:"version"`
	Address string                `json:"address"`
	Path    string                `json:"path,omitempty"`
	Crypto  *securestore.Envelope `json:"crypto"`
}

// keystoreSecret is the sealed payload. The mnemonic is carried so that a
// restored wallet keeps its derivation origin.
type keystoreSecret struct {
	PrivateKey string `json:"private_key"`
	Mnemonic   string `json:"mnemonic,omitempty"`
}

// EncryptJSON seals the wallet's secrets under passphrase. The address is
// bound as additional data so it cannot be swapped in the clear-text header.
func (w *Wallet) EncryptJSON(passphrase string) ([]byte, error) {
	secret, err := json.Marshal(keystoreSecret{
		PrivateKey: hex.EncodeToString(w.privateKey),
		Mnemonic:   w.mnemonic,
	})
	if err != nil {
		return nil, err
	}
	defer securestore.ZeroBytes(secret)

	address := w.Address()
	env, err := securestore.Seal(passphrase, secret, []byte(strings.ToLower(address)))
	if err != nil {
		return nil, err
	}
	return json.Marshal(keystoreFile{
		Version: keystoreVersion,
		Address: address,
		Path:    w.path,
		Crypto:  env,
	})
}

// FromEncryptedJSON restores a wallet from keystore JSON. It reads both the
// sealed format written by EncryptJSON and Web3 Secret Storage v3 keystores
// (scrypt or pbkdf2) as written by EncryptKeystoreV3 and Ethereum clients.
func FromEncryptedJSON(data []byte, passphrase string) (*Wallet, error) {
	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeystoreInvalid, err)
	}
	if header.Version == keystoreV3 {
		return fromKeystoreV3(data, passphrase)
	}
	return fromSealedJSON(data, passphrase)
}

func fromSealedJSON(data []byte, passphrase string) (*Wallet, error) {
	var file keystoreFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeystoreInvalid, err)
	}
	if file.Version != keystoreVersion || file.Crypto == nil {
		return nil, ErrKeystoreInvalid
	}

	plaintext, err := securestore.Open(passphrase, file.Crypto, []byte(strings.ToLower(file.Address)))
	switch {
	case errors.Is(err, securestore.ErrAuthFailed), errors.Is(err, securestore.ErrPassphraseMissing):
		return nil, ErrKeystoreAuth
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrKeystoreInvalid, err)
	}
	defer securestore.ZeroBytes(plaintext)

	var secret keystoreSecret
	if err := json.Unmarshal(plaintext, &secret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeystoreInvalid, err)
	}
	w, err := FromPrivateKey(secret.PrivateKey)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(w.Address(), file.Address) {
		return nil, fmt.Errorf("%w: address mismatch", ErrKeystoreInvalid)
	}
	w.mnemonic = secret.Mnemonic
	w.path = file.Path
	return w, nil
}
