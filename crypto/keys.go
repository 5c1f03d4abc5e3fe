package crypto

import (
	"encoding/hex"
	"io/ioutil"
	"strings"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"golang.org/x/crypto/ed25519"
)

const (
	// ExtensionName is used for the condition of every key.
	ExtensionName = "sigs"

	keyType = "ed25519"
)

// PrivateKey is an ed25519 owner key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}
	return &PrivateKey{key: priv}, nil
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// PublicKey returns the raw public key bytes.
func (p *PrivateKey) PublicKey() []byte {
	return []byte(p.key.Public().(ed25519.PublicKey))
}

// Seed returns the private seed this key can be restored from.
func (p *PrivateKey) Seed() []byte {
	return p.key.Seed()
}

// Condition encodes the public key into a vault permission.
func (p *PrivateKey) Condition() vault.Condition {
	return PublicKeyCondition(p.PublicKey())
}

// PublicKeyCondition returns the permission granted by a valid signature
// of given public key.
func PublicKeyCondition(pubkey []byte) vault.Condition {
	return vault.NewCondition(ExtensionName, keyType, pubkey)
}

// Address is the identity this key acts as.
func (p *PrivateKey) Address() vault.Address {
	return p.Condition().Address()
}

// Sign returns a signature of the message. Used by clients that relay
// requests on behalf of the key holder.
func (p *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(p.key, msg)
}

// Verify checks a signature created by Sign for given public key.
func Verify(pubkey, msg, sig []byte) bool {
	if len(pubkey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubkey), msg, sig)
}

// SaveKey writes the hex encoded seed of the key to the file.
func SaveKey(path string, key *PrivateKey) error {
	raw := hex.EncodeToString(key.Seed())
	if err := ioutil.WriteFile(path, []byte(raw+"\n"), 0600); err != nil {
		return errors.Wrap(err, "write key file")
	}
	return nil
}

// LoadKey reads a key file written by SaveKey.
func LoadKey(path string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "key file is not hex encoded")
	}
	return PrivKeyEd25519FromSeed(seed)
}
