package reactive

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
)

// ErrUndecodable reports stored text that neither parses as JSON for T nor fits T verbatim.
var ErrUndecodable = errors.New("stored value cannot be decoded")

// decodeResult is the outcome of reading stored text back into a T.
type decodeResult[T any] struct {
	value T
	// raw is set when value is the stored text itself rather than a JSON decode.
	raw bool
	err error
}

func decode[T any](text string) decodeResult[T] {
	var v T

	jsonErr := json.Unmarshal([]byte(text), &v)
	if jsonErr == nil {
		return decodeResult[T]{value: v}
	}

	var zero T

	rv := reflect.ValueOf(&zero).Elem()

	switch {
	case rv.Kind() == reflect.String:
		rv.SetString(text)

		return decodeResult[T]{value: zero, raw: true}
	case rv.Kind() == reflect.Interface && reflect.TypeOf(text).Implements(rv.Type()):
		rv.Set(reflect.ValueOf(text))

		return decodeResult[T]{value: zero, raw: true}
	}

	return decodeResult[T]{err: fmt.Errorf("%w as %s: %v", ErrUndecodable, rv.Type(), jsonErr)}
}

// encode returns the clean storage form of v: string kinds as-is, everything else JSON.
func encode[T any](v T) (string, error) {
	if s, ok := any(v).(string); ok {
		return s, nil
	}

	rv := reflect.ValueOf(any(v))
	if rv.IsValid() && rv.Kind() == reflect.String {
		return rv.String(), nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}

	return string(data), nil
}
