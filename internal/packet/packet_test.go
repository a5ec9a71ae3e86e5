package packet

import (
	"bytes"
	"crypto/aes"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Vectors produced with `openssl enc -aes-128-ecb -nopad` and DefaultKey.
const (
	// fixstr "temperature reading!" spanning both blocks.
	twoBlockCiphertext = "0102030405" + "9B0C5302B33B44FC49C76B8A80AF0E46" + "02B16532DEB4F574C321873BF40AF258"
	// fixmap {"t": 23}.
	mapCiphertext = "AABBCCDDEE" + "E960CC9207E32FFEF192FF6BFB822C5F"
	// 0xc1 lead byte, never valid in msgpack.
	badLeadCiphertext = "0000000000" + "11B151344E140C896C7273561B367E2E"
)

func TestDecryptDefault(t *testing.T) {
	res, err := Decrypt(DefaultCiphertext, DefaultKey)
	require.NoError(t, err)

	assert.Equal(t, `{"test":123}`, res.Value)
	assert.Equal(t, 13, res.Consumed)
	assert.Equal(t, []byte{0x80, 0x00, 0x00}, res.Padding())
	assert.Equal(t, [PrefixLen]byte{0xCE, 0xBC, 0x9A, 0xB2, 0x39}, res.Prefix)
	assert.Len(t, res.Plaintext, BlockSize)
}

func TestDecryptKnownVectors(t *testing.T) {
	tests := []struct {
		name       string
		ciphertext string
		expected   interface{}
		plainLen   int
	}{
		{
			name:       "two blocks",
			ciphertext: twoBlockCiphertext,
			expected:   "temperature reading!",
			plainLen:   32,
		},
		{
			name:       "map",
			ciphertext: mapCiphertext,
			expected:   map[interface{}]interface{}{"t": int64(23)},
			plainLen:   16,
		},
		{
			name:       "lowercase hex",
			ciphertext: strings.ToLower(twoBlockCiphertext),
			expected:   "temperature reading!",
			plainLen:   32,
		},
		{
			name:       "trailing bytes after two blocks are ignored",
			ciphertext: twoBlockCiphertext + "DEADBEEF",
			expected:   "temperature reading!",
			plainLen:   32,
		},
		{
			name:       "surrounding whitespace",
			ciphertext: "  " + mapCiphertext + "\n",
			expected:   map[interface{}]interface{}{"t": int64(23)},
			plainLen:   16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decrypt(tt.ciphertext, DefaultKey)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Value)
			assert.Len(t, res.Plaintext, tt.plainLen)
		})
	}
}

func TestDecryptErrors(t *testing.T) {
	tests := []struct {
		name       string
		ciphertext string
		key        string
		sentinel   error
		stage      Stage
	}{
		{
			name:       "non-hex ciphertext",
			ciphertext: "CEBC9AB2394489959C13C3BC81CA450353EBA0881Z",
			key:        DefaultKey,
			sentinel:   ErrInputDecoding,
			stage:      StageHex,
		},
		{
			name:       "odd length ciphertext",
			ciphertext: DefaultCiphertext[1:],
			key:        DefaultKey,
			sentinel:   ErrInputDecoding,
			stage:      StageHex,
		},
		{
			name:       "non-hex key",
			ciphertext: DefaultCiphertext,
			key:        "41eac07039b29abc41eac07039b29abX",
			sentinel:   ErrInputDecoding,
			stage:      StageKey,
		},
		{
			name:       "malformed hex wins over bad key size",
			ciphertext: "zz",
			key:        "0011",
			sentinel:   ErrInputDecoding,
			stage:      StageHex,
		},
		{
			name:       "short key",
			ciphertext: DefaultCiphertext,
			key:        "41eac07039b29abc",
			sentinel:   ErrKeySize,
			stage:      StageKey,
		},
		{
			name:       "17 byte key",
			ciphertext: DefaultCiphertext,
			key:        DefaultKey + "00",
			sentinel:   ErrKeySize,
			stage:      StageKey,
		},
		{
			name:       "shorter than prefix",
			ciphertext: "CEBC9A",
			key:        DefaultKey,
			sentinel:   ErrBufferTooShort,
			stage:      StageHex,
		},
		{
			name:       "less than one block after prefix",
			ciphertext: DefaultCiphertext[:30],
			key:        DefaultKey,
			sentinel:   ErrBufferTooShort,
			stage:      StageDecrypt,
		},
		{
			name:       "truncated second block",
			ciphertext: twoBlockCiphertext[:len(twoBlockCiphertext)-8],
			key:        DefaultKey,
			sentinel:   ErrBufferTooShort,
			stage:      StageDecrypt,
		},
		{
			name:       "invalid msgpack lead byte",
			ciphertext: badLeadCiphertext,
			key:        DefaultKey,
			sentinel:   ErrDeserialization,
			stage:      StageUnpack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Decrypt(tt.ciphertext, tt.key)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v, want %v", err, tt.sentinel)

			var stageErr *StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, tt.stage, stageErr.Stage)
			assert.True(t, strings.HasPrefix(err.Error(), string(tt.stage)+": "))
		})
	}
}

func TestDecryptDeterministic(t *testing.T) {
	first, err := Decrypt(twoBlockCiphertext, DefaultKey)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Decrypt(twoBlockCiphertext, DefaultKey)
		require.NoError(t, err)
		assert.Equal(t, first.Plaintext, again.Plaintext)
		assert.Equal(t, first.Value, again.Value)
	}
}

func TestPrefixIrrelevant(t *testing.T) {
	body := twoBlockCiphertext[2*PrefixLen:]
	want, err := Decrypt(twoBlockCiphertext, DefaultKey)
	require.NoError(t, err)

	for _, prefix := range []string{"0000000000", "FFFFFFFFFF", "CEBC9AB239", "1234567890"} {
		t.Run(prefix, func(t *testing.T) {
			got, err := Decrypt(prefix+body, DefaultKey)
			require.NoError(t, err)
			assert.Equal(t, want.Plaintext, got.Plaintext)
			assert.Equal(t, want.Value, got.Value)
		})
	}
}

func TestDecryptBlocksIndependent(t *testing.T) {
	block, err := NewCipher(DefaultKey)
	require.NoError(t, err)

	raw, err := hex.DecodeString(twoBlockCiphertext)
	require.NoError(t, err)
	data := raw[PrefixLen:]

	together, err := DecryptBlocks(block, data)
	require.NoError(t, err)

	second, err := DecryptBlocks(block, data[BlockSize:2*BlockSize])
	require.NoError(t, err)
	first, err := DecryptBlocks(block, data[:BlockSize])
	require.NoError(t, err)

	assert.Equal(t, together, append(first, second...))

	// swapping ciphertext blocks swaps plaintext blocks
	swapped := append(append([]byte{}, data[BlockSize:2*BlockSize]...), data[:BlockSize]...)
	out, err := DecryptBlocks(block, swapped)
	require.NoError(t, err)
	assert.Equal(t, append(second, first...), out)
}

func TestDecryptBlocksUsesAtMostTwoBlocks(t *testing.T) {
	block, err := aes.NewCipher(bytes.Repeat([]byte{7}, 16))
	require.NoError(t, err)

	out, err := DecryptBlocks(block, make([]byte, 5*BlockSize))
	require.NoError(t, err)
	assert.Len(t, out, MaxBlocks*BlockSize)
}

func TestSealRoundTrip(t *testing.T) {
	keys := map[string]string{
		"aes-128": DefaultKey,
		"aes-192": strings.Repeat("a1", 24),
		"aes-256": strings.Repeat("0f", 32),
	}
	values := []interface{}{
		"Calliope mini",
		int64(-12),
		true,
		nil,
		map[interface{}]interface{}{"t": int64(21)},
		[]interface{}{int64(1), int64(2), "three"},
		"exactly fifteen",
		"a string of twenty-nine bytes",
	}
	prefix := [PrefixLen]byte{1, 2, 3, 4, 5}

	for name, key := range keys {
		for i, v := range values {
			t.Run(fmt.Sprintf("%s/%d", name, i), func(t *testing.T) {
				sealed, err := Seal(v, key, prefix)
				require.NoError(t, err)
				assert.Equal(t, strings.ToUpper(sealed), sealed)

				res, err := Decrypt(sealed, key)
				require.NoError(t, err)
				assert.Equal(t, v, res.Value)
				assert.Equal(t, prefix, res.Prefix)
				assert.Equal(t, byte(padMarker), res.Padding()[0])
			})
		}
	}
}

func TestSealReproducesDefault(t *testing.T) {
	sealed, err := Seal(`{"test":123}`, DefaultKey, [PrefixLen]byte{0xCE, 0xBC, 0x9A, 0xB2, 0x39})
	require.NoError(t, err)
	assert.Equal(t, DefaultCiphertext, sealed)
}

func TestSealErrors(t *testing.T) {
	_, err := Seal(strings.Repeat("x", 40), DefaultKey, [PrefixLen]byte{})
	assert.True(t, errors.Is(err, ErrPayloadTooLarge))

	_, err = Seal("hi", "beef", [PrefixLen]byte{})
	assert.True(t, errors.Is(err, ErrKeySize))

	_, err = Seal("hi", "not hex", [PrefixLen]byte{})
	assert.True(t, errors.Is(err, ErrInputDecoding))
}

func TestPad(t *testing.T) {
	tests := []struct {
		in      int
		wantLen int
	}{
		{0, 16},
		{13, 16},
		{15, 16},
		{16, 32},
		{31, 32},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			out, err := pad(bytes.Repeat([]byte{1}, tt.in))
			require.NoError(t, err)
			assert.Len(t, out, tt.wantLen)
			assert.Equal(t, byte(padMarker), out[tt.in])
			assert.Equal(t, make([]byte, tt.wantLen-tt.in-1), out[tt.in+1:])
		})
	}

	_, err := pad(make([]byte, 32))
	assert.True(t, errors.Is(err, ErrPayloadTooLarge))
}

func TestUnpackIgnoresTrailingBytes(t *testing.T) {
	v, n, err := Unpack([]byte{0xa2, 'o', 'k', 0xc1, 0xc1, 0xff})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 3, n)

	_, _, err = Unpack(nil)
	assert.True(t, errors.Is(err, ErrDeserialization))
}

func TestStageErrorFormat(t *testing.T) {
	_, err := Decrypt("zz", DefaultKey)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "hex: decode ciphertext")
	assert.Contains(t, err.Error(), ErrInputDecoding.Error())
	// %+v carries the pkg/errors stack
	assert.Contains(t, fmt.Sprintf("%+v", err), "packet.fail")
}

func ExampleDecrypt() {
	res, err := Decrypt(DefaultCiphertext, DefaultKey)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Value)
	// Output: {"test":123}
}
