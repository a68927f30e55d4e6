// Package wallet derives Ethereum-style secp256k1 accounts from BIP-39
// mnemonics along BIP-32 paths, imports raw private keys, and seals wallets
// into passphrase-protected keystore JSON.
//
// A wallet derived from a mnemonic is independent of the Ed25519 identity
// derived from the same words; only the mnemonic is shared.
package wallet
