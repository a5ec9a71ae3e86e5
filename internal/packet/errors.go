package packet

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stage names the step of the pipeline that failed.
type Stage string

const (
	StageHex     Stage = "hex"
	StageKey     Stage = "key"
	StageDecrypt Stage = "decrypt"
	StageUnpack  Stage = "unpack"
	StageSeal    Stage = "seal"
)

var (
	// ErrInputDecoding is returned for malformed hexadecimal input.
	ErrInputDecoding = errors.New("invalid hex input")
	// ErrKeySize is returned when the decoded key is not 16, 24 or 32 bytes.
	ErrKeySize = errors.New("unsupported key size")
	// ErrBufferTooShort is returned when the message does not hold whole cipher blocks.
	ErrBufferTooShort = errors.New("message too short")
	// ErrDeserialization is returned when no msgpack value starts the plaintext.
	ErrDeserialization = errors.New("no msgpack value in plaintext")
	// ErrSerialization is returned by Seal when the value cannot be msgpack encoded.
	ErrSerialization = errors.New("cannot encode value as msgpack")
	// ErrPayloadTooLarge is returned by Seal when the encoded value exceeds two blocks.
	ErrPayloadTooLarge = errors.New("payload does not fit in two blocks")
)

// StageError ties a failure to the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Format keeps the pkg/errors stack trace reachable through %+v.
func (e *StageError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.Stage, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// fail wraps sentinel with the message of cause (when present) and tags it with stage.
func fail(stage Stage, sentinel error, cause error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &StageError{Stage: stage, Err: errors.Wrap(sentinel, msg)}
}
