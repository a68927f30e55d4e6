// Package tinyara wires the identity factory from configuration.
//
// Open loads YAML and environment configuration, selects the BIP-39
// wordlist, and returns a Service whose Create derives an Ed25519 identity
// (did:ara:<hex>) together with an Ethereum-style HD wallet from one
// mnemonic. The building blocks live in pkg/identity, pkg/wallet, pkg/did
// and pkg/crypto and may be used directly.
package tinyara
