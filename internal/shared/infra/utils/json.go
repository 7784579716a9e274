package utils

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload indica que el mensaje no se puede decodificar: reintentarlo no sirve.
var ErrMalformedPayload = errors.New("malformed payload")

// UnmarshalAndHandle decodifica data como T y se lo pasa a handler.
func UnmarshalAndHandle[T any](data []byte, handler func(T) error) error {
	var evt T
	if err := json.Unmarshal(data, &evt); err != nil {
		return fmt.Errorf("%w: %T: %w", ErrMalformedPayload, evt, err)
	}
	return handler(evt)
}
