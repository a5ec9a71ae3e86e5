// Package bc95 provides a public API for decoding encrypted BC95 NB-IoT
// messages. This package can be used as a library in other Go projects.
package bc95

import (
	"github.com/alvarorichard/bc95decrypt/internal/packet"
)

// Re-exported so callers can match failures with errors.Is.
var (
	ErrInputDecoding   = packet.ErrInputDecoding
	ErrKeySize         = packet.ErrKeySize
	ErrBufferTooShort  = packet.ErrBufferTooShort
	ErrDeserialization = packet.ErrDeserialization
	ErrPayloadTooLarge = packet.ErrPayloadTooLarge
)

const (
	DefaultCiphertext = packet.DefaultCiphertext
	DefaultKey        = packet.DefaultKey
)

// Decrypt decodes a hex message with a hex AES key and returns the first
// msgpack value it carries.
func Decrypt(ciphertextHex, keyHex string) (interface{}, error) {
	res, err := packet.Decrypt(ciphertextHex, keyHex)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// DecryptDefault decodes the built-in example message.
func DecryptDefault() (interface{}, error) {
	return Decrypt(DefaultCiphertext, DefaultKey)
}

// Seal encrypts value into a hex message that Decrypt accepts, using a zero prefix.
func Seal(value interface{}, keyHex string) (string, error) {
	return packet.Seal(value, keyHex, [packet.PrefixLen]byte{})
}
