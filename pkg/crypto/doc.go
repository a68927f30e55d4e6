// Package crypto exposes the primitives the identity factory derives keys with.
//
// Contents
//
//   - BLAKE2b-256 hashing of seed material (Blake2b)
//   - Deterministic Ed25519 key pairs from 32 bytes of entropy (NewKeyPair)
//   - Primitives, a value bundling both for injection into identity.Factory
//
// Secret keys follow the Ed25519 convention of 64 bytes whose trailing 32
// bytes are the public key.
package crypto
