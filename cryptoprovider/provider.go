// Package cryptoprovider defines the narrow crypto capability set the
// decoder needs, and a concrete secp256k1/Keccak-256 implementation.
//
// The interface generalizes the teacher's narrow-capability convention
// (crypto/provider.go: CryptoProvider{ SHA3_256, VerifyMLDSA87,
// VerifySLHDSASHAKE_256f }) to this spec's classical-curve scheme:
// Keccak-256 hashing and secp256k1 public-key recovery, so the core never
// hard-codes a curve library (§9 design note).
package cryptoprovider

import "redstone.dev/oracle/protocol"

// CryptoProvider is the capability set §4.3 requires: keccak256 hashing and
// secp256k1 public-key recovery with malleability/bounds checks baked in.
type CryptoProvider interface {
	// Keccak256 hashes input and returns the 32-byte digest.
	Keccak256(input []byte) [32]byte

	// RecoverPublicKey recovers the uncompressed 65-byte public key from a
	// prehash and a 64-byte (r, s) signature plus a recovery byte in
	// {0, 1, 27, 28}. It enforces the bounds and low-S malleability checks
	// of §4.3 before attempting recovery.
	RecoverPublicKey(recovery byte, signatureRS []byte, prehash [32]byte) ([65]byte, error)

	// RecoverAddress hashes message, recovers the public key from the
	// 65-byte signature (r(32)||s(32)||v(1)), and returns the last 20
	// bytes of Keccak256(pubkey[1:]) as the signer address.
	RecoverAddress(message []byte, signature65 []byte) (protocol.SignerAddress, error)
}
