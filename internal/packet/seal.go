package packet

import (
	"crypto/cipher"
	"encoding/hex"
	"strings"

	"github.com/andreburgaud/crypt2go/ecb"
)

// padMarker opens the padding after the encoded value, followed by zeros.
const padMarker = 0x80

// Seal is the inverse of Decrypt: it msgpack-encodes value, pads it to whole
// blocks, encrypts it with keyHex in ECB mode and returns prefix+ciphertext
// as uppercase hex, the alphabet the device firmware emits.
func Seal(value interface{}, keyHex string, prefix [PrefixLen]byte) (string, error) {
	block, err := NewCipher(keyHex)
	if err != nil {
		return "", err
	}
	encoded, err := Pack(value)
	if err != nil {
		return "", err
	}
	sealed, err := SealBytes(block, encoded)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(append(prefix[:], sealed...))), nil
}

// SealBytes pads encoded and encrypts it in ECB mode.
func SealBytes(block cipher.Block, encoded []byte) ([]byte, error) {
	padded, err := pad(encoded)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(padded))
	ecb.NewECBEncrypter(block).CryptBlocks(out, padded)
	return out, nil
}

// pad appends padMarker and zeros up to the next block boundary.
func pad(encoded []byte) ([]byte, error) {
	if len(encoded) >= MaxBlocks*BlockSize {
		return nil, fail(StageSeal, ErrPayloadTooLarge, nil,
			"encoded value is %d bytes, at most %d fit", len(encoded), MaxBlocks*BlockSize-1)
	}
	n := (len(encoded)/BlockSize + 1) * BlockSize
	padded := make([]byte, n)
	copy(padded, encoded)
	padded[len(encoded)] = padMarker
	return padded, nil
}
