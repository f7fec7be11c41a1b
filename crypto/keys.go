package crypto

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"strings"

	"github.com/iov-one/sharepool/errors"
	"github.com/stellar/go/exp/crypto/derivation"
	"golang.org/x/crypto/ed25519"
)

// DefaultDerivationPath is the bip44 path used when deriving keys from a
// mnemonic seed.
const DefaultDerivationPath = "m/44'/234'/0'"

// DecodePrivateKey reads a private key from its textual form. Both hex
// encoding and a JSON array of byte values are accepted. The decoded bytes
// are either a 32 byte seed or a full 64 byte private key.
//
// If path is not empty, the decoded bytes are used as a master seed and
// the key is derived using given bip44 path.
func DecodePrivateKey(raw, path string) (*PrivateKey, error) {
	data, err := decodeKeyMaterial(raw)
	if err != nil {
		return nil, err
	}
	if path != "" {
		return DerivePrivateKey(data, path)
	}
	switch len(data) {
	case ed25519.SeedSize:
		return PrivKeyEd25519FromSeed(data), nil
	case ed25519.PrivateKeySize:
		key := PrivKeyEd25519FromSeed(data[:ed25519.SeedSize])
		if !bytes.Equal(key.Ed25519, data) {
			return nil, errors.Wrap(errors.ErrInput, "public part does not match the private key")
		}
		return key, nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "invalid key length %d", len(data))
	}
}

// LoadPrivateKey reads a private key stored in a file. See DecodePrivateKey
// for supported formats.
func LoadPrivateKey(filename, path string) (*PrivateKey, error) {
	raw, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read key file")
	}
	return DecodePrivateKey(string(raw), path)
}

// DerivePrivateKey derives an ed25519 key from the master seed using the
// SLIP-0010 scheme.
func DerivePrivateKey(seed []byte, path string) (*PrivateKey, error) {
	if len(seed) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "seed")
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}

// EncodePrivateKey returns the hex representation of the full private key,
// readable by DecodePrivateKey.
func EncodePrivateKey(key *PrivateKey) string {
	return hex.EncodeToString(key.Ed25519)
}

func decodeKeyMaterial(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "key")
	}
	if strings.HasPrefix(raw, "[") {
		var values []int
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "json key: %s", err)
		}
		data := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return nil, errors.Wrapf(errors.ErrInput, "json key: byte %d out of range", i)
			}
			data[i] = byte(v)
		}
		return data, nil
	}
	data, err := hex.DecodeString(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "hex key: %s", err)
	}
	return data, nil
}
