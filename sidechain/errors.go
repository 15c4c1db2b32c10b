package sidechain

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload reports a payload whose tag named a known record
// kind but whose remaining bytes do not decode as that kind's fields.
// It is distinct from absence: Decode returns (nil, nil) for empty
// input or an unknown tag, and wraps this error for truncated or
// invalid field data.
var ErrMalformedPayload = errors.New("malformed sidechain object payload")

func malformed(tag Tag, field string, err error) error {
	return fmt.Errorf("%w: tag %q field %s: %v", ErrMalformedPayload, byte(tag), field, err)
}
