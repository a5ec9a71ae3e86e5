package packet

import (
	"github.com/ugorji/go/codec"
)

// msgpackHandle decodes msgpack str as Go strings and writes str8/bin types
// when encoding, which is what the device firmware expects. Map keys are
// sorted on encode so Seal output is reproducible.
var msgpackHandle = newMsgpackHandle()

func newMsgpackHandle() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.RawToString = true
	h.WriteExt = true
	h.Canonical = true
	return h
}

// Unpack decodes the first msgpack value of buf. Bytes after the value are
// left alone; consumed reports how many bytes the value occupied.
func Unpack(buf []byte) (value interface{}, consumed int, err error) {
	if len(buf) == 0 {
		return nil, 0, fail(StageUnpack, ErrDeserialization, nil, "empty plaintext")
	}
	dec := codec.NewDecoderBytes(buf, msgpackHandle)
	if err := dec.Decode(&value); err != nil {
		return nil, 0, fail(StageUnpack, ErrDeserialization, err, "decode first value")
	}
	return value, dec.NumBytesRead(), nil
}

// Pack encodes v with the same handle Unpack uses.
func Pack(v interface{}) ([]byte, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, msgpackHandle).Encode(v); err != nil {
		return nil, fail(StageSeal, ErrSerialization, err, "encode value")
	}
	return out, nil
}
