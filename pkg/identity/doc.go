// Package identity turns mnemonics and raw Ed25519 key material into
// immutable identities addressed by did:ara DIDs.
//
// From accepts a public key (32 bytes or 64 hex characters), a 64-byte
// secret key, or a map of fields, and validates that any secret key matches
// its public key. Factory.Create derives the key pair as
// ed25519(blake2b-256(bip39 seed)) and derives an HD wallet from the same
// mnemonic.
package identity
