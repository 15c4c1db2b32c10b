package sidechain

import (
	"bytes"

	"github.com/btcsuite/btcd/txscript"
)

// A commitment is a data-only transaction output carrying an encoded
// sidechain object. Its PkScript starts with a fixed 5-byte header:
// the OP_RETURN marker followed by the 4-byte protocol magic, written
// as raw bytes rather than a data push. The tagged object payload
// follows immediately.
const commitmentHeaderLen = 5

var commitmentMagic = [4]byte{0xAC, 0xDC, 0xF6, 0x6F}

// BuildCommitment returns the exact PkScript bytes of a commitment
// output for obj: marker, magic, tag byte, field payload.
func BuildCommitment(obj Object) ([]byte, error) {
	payload, err := Encode(obj)
	if err != nil {
		return nil, err
	}

	script := make([]byte, 0, commitmentHeaderLen+1+len(payload))
	script = append(script, txscript.OP_RETURN)
	script = append(script, commitmentMagic[:]...)
	script = append(script, byte(obj.Tag()))
	script = append(script, payload...)
	return script, nil
}

// IsCommitment reports whether script carries the commitment header.
func IsCommitment(script []byte) bool {
	return len(script) >= commitmentHeaderLen &&
		script[0] == txscript.OP_RETURN &&
		bytes.Equal(script[1:commitmentHeaderLen], commitmentMagic[:])
}

// ParseCommitment is the inverse of BuildCommitment. Scripts that are
// too short or whose header does not match return (nil, nil): almost
// every output on the chain is not a commitment, and absence is the
// normal outcome. A matching header with a malformed payload returns
// the Decode error.
func ParseCommitment(script []byte) (Object, error) {
	if !IsCommitment(script) {
		return nil, nil
	}
	return Decode(script[commitmentHeaderLen:])
}
