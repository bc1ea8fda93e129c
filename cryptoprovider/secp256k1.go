package cryptoprovider

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"redstone.dev/oracle/protocol"
	"redstone.dev/oracle/rerr"
)

// secp256k1N is the order of the secp256k1 group.
var secp256k1N = mustHexBig("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141")

// secp256k1HalfN is N/2, the low-S malleability bound.
var secp256k1HalfN = mustHexBig("7FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF5D576E7357A4501DDFE92F46681B20A0")

func mustHexBig(hex string) *big.Int {
	n, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		panic("cryptoprovider: invalid constant")
	}
	return n
}

// Secp256k1Keccak is the default host-side CryptoProvider: Keccak-256
// hashing via golang.org/x/crypto/sha3 (the teacher's own hashing
// dependency, crypto/devstd.go, repurposed with the Keccak constructor
// instead of the SHA3 one) and secp256k1 signature recovery via
// github.com/decred/dcrd/dcrec/secp256k1/v4 (see SPEC_FULL.md §4.8).
type Secp256k1Keccak struct{}

// NewSecp256k1Keccak constructs the default CryptoProvider.
func NewSecp256k1Keccak() Secp256k1Keccak {
	return Secp256k1Keccak{}
}

func (Secp256k1Keccak) Keccak256(input []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(input)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// normalizeRecovery maps {0,1,27,28} to {0,1}; any other value is
// CodeRecoveryByte.
func normalizeRecovery(recovery byte) (byte, error) {
	switch recovery {
	case 0, 1:
		return recovery, nil
	case 27, 28:
		return recovery - 27, nil
	default:
		return 0, rerr.New(rerr.CodeRecoveryByte, "recovery byte %d not in {0,1,27,28}", recovery)
	}
}

// checkSignatureBounds enforces §4.3's bounds and low-S malleability rule:
// r != 0, s != 0, r < N, s <= N/2.
func checkSignatureBounds(r, s *big.Int) error {
	if r.Sign() == 0 || s.Sign() == 0 {
		return rerr.New(rerr.CodeSignature, "r or s is zero")
	}
	if r.Cmp(secp256k1N) >= 0 {
		return rerr.New(rerr.CodeSignature, "r >= N")
	}
	if s.Cmp(secp256k1HalfN) > 0 {
		return rerr.New(rerr.CodeSignature, "s > N/2 (non-canonical, malleable signature)")
	}
	return nil
}

func (p Secp256k1Keccak) RecoverPublicKey(recovery byte, signatureRS []byte, prehash [32]byte) ([65]byte, error) {
	var out [65]byte
	if len(signatureRS) != 64 {
		return out, rerr.New(rerr.CodeInvalidSignatureLen, "signature r||s must be 64 bytes, got %d", len(signatureRS))
	}
	normRecovery, err := normalizeRecovery(recovery)
	if err != nil {
		return out, err
	}
	r := new(big.Int).SetBytes(signatureRS[:32])
	s := new(big.Int).SetBytes(signatureRS[32:64])
	if err := checkSignatureBounds(r, s); err != nil {
		return out, err
	}

	compact := make([]byte, 65)
	compact[0] = 27 + normRecovery
	copy(compact[1:33], signatureRS[:32])
	copy(compact[33:65], signatureRS[32:64])

	var pubKey *secp256k1.PublicKey
	pubKey, _, err = ecdsa.RecoverCompact(compact, prehash[:])
	if err != nil {
		return out, rerr.New(rerr.CodeRecoverPreHash, "recover public key: %v", err)
	}
	copy(out[:], pubKey.SerializeUncompressed())
	return out, nil
}

func (p Secp256k1Keccak) RecoverAddress(message []byte, signature65 []byte) (protocol.SignerAddress, error) {
	var addr protocol.SignerAddress
	if len(signature65) != 65 {
		return addr, rerr.New(rerr.CodeInvalidSignatureLen, "signature must be 65 bytes, got %d", len(signature65))
	}
	prehash := p.Keccak256(message)
	recovery := signature65[64]
	pub, err := p.RecoverPublicKey(recovery, signature65[:64], prehash)
	if err != nil {
		return addr, err
	}
	digest := p.Keccak256(pub[1:])
	copy(addr[:], digest[12:])
	return addr, nil
}
