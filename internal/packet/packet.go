// Package packet decodes encrypted BC95 uplink messages: a hex string made of
// a 5 byte prefix followed by AES-ECB encrypted msgpack data.
package packet

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"strings"

	"github.com/andreburgaud/crypt2go/ecb"
)

const (
	// DefaultCiphertext decrypts with DefaultKey to the msgpack string {"test":123}.
	DefaultCiphertext = "CEBC9AB2394489959C13C3BC81CA450353EBA08819"
	DefaultKey        = "41eac07039b29abc41eac07039b29abc"

	// PrefixLen bytes at the start of every message are skipped.
	PrefixLen = 5
	BlockSize = aes.BlockSize
	MaxBlocks = 2
)

// Result holds every intermediate product of Decrypt.
type Result struct {
	Prefix    [PrefixLen]byte
	Plaintext []byte
	Value     interface{}
	// Consumed is the length of the encoded value; Plaintext[Consumed:] is padding.
	Consumed int
}

// Padding returns the plaintext bytes that follow the decoded value.
func (r *Result) Padding() []byte {
	return r.Plaintext[r.Consumed:]
}

// DecodeHex decodes s after trimming surrounding whitespace.
func DecodeHex(stage Stage, what, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fail(stage, ErrInputDecoding, err, "decode %s", what)
	}
	return b, nil
}

// NewCipher decodes keyHex and returns the AES block cipher for it.
func NewCipher(keyHex string) (cipher.Block, error) {
	key, err := DecodeHex(StageKey, "key", keyHex)
	if err != nil {
		return nil, err
	}
	return newCipher(key)
}

func newCipher(key []byte) (cipher.Block, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fail(StageKey, ErrKeySize, err, "key is %d bytes, want 16, 24 or 32", len(key))
	}
	return block, nil
}

// DecryptBlocks decrypts the first one or two whole blocks of data with block
// in ECB mode. Bytes past MaxBlocks*BlockSize are ignored. A trailing partial
// block inside that window is rejected.
func DecryptBlocks(block cipher.Block, data []byte) ([]byte, error) {
	window := data
	if len(window) > MaxBlocks*BlockSize {
		window = window[:MaxBlocks*BlockSize]
	}
	if len(window) < BlockSize {
		return nil, fail(StageDecrypt, ErrBufferTooShort, nil,
			"%d bytes after prefix, need at least %d", len(data), BlockSize)
	}
	if len(window)%BlockSize != 0 {
		return nil, fail(StageDecrypt, ErrBufferTooShort, nil,
			"%d bytes after prefix is not a whole number of %d byte blocks", len(window), BlockSize)
	}

	mode := ecb.NewECBDecrypter(block)
	plaintext := make([]byte, 0, len(window))
	out := make([]byte, BlockSize)
	for off := 0; off < len(window); off += BlockSize {
		mode.CryptBlocks(out, window[off:off+BlockSize])
		plaintext = append(plaintext, out...)
	}
	return plaintext, nil
}

// Decrypt runs the full pipeline on a hex ciphertext and hex key. Both hex
// strings are validated before any cipher work happens.
func Decrypt(ciphertextHex, keyHex string) (*Result, error) {
	key, err := DecodeHex(StageKey, "key", keyHex)
	if err != nil {
		return nil, err
	}
	raw, err := DecodeHex(StageHex, "ciphertext", ciphertextHex)
	if err != nil {
		return nil, err
	}

	block, err := newCipher(key)
	if err != nil {
		return nil, err
	}

	if len(raw) < PrefixLen {
		return nil, fail(StageHex, ErrBufferTooShort, nil,
			"ciphertext is %d bytes, shorter than the %d byte prefix", len(raw), PrefixLen)
	}
	res := &Result{}
	copy(res.Prefix[:], raw[:PrefixLen])

	res.Plaintext, err = DecryptBlocks(block, raw[PrefixLen:])
	if err != nil {
		return nil, err
	}

	res.Value, res.Consumed, err = Unpack(res.Plaintext)
	if err != nil {
		return nil, err
	}
	return res, nil
}
