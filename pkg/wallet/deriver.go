package wallet

import "strings"

// Deriver derives wallets from mnemonics. Path is used when the caller gives
// none; an empty Path falls back to DefaultPath.
type Deriver struct {
	Path string
}

func (d Deriver) DeriveWallet(mnemonic, path string) (*Wallet, error) {
	if strings.TrimSpace(path) == "" {
		path = d.Path
	}
	return FromMnemonic(mnemonic, path)
}
