package storage

import (
	"bytes"
	"errors"

	json "github.com/goccy/go-json"
)

// Encode renders v as indented JSON, the on-disk format of every store file
func Encode(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Decode parses data into v keeping numbers as json.Number so integers
// survive without a float64 round trip. Use NormalizeValue afterwards.
// data must hold exactly one JSON value; trailing content is an error.
func Decode(data []byte, v interface{}) error {
	if !Valid(data) {
		return errors.New("not a single well-formed JSON value")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// Valid reports whether data is well-formed JSON
func Valid(data []byte) bool {
	return json.Valid(data)
}

// NormalizeValue converts json.Number to int64 (or float64 when it is not
// an integer), descending into maps and slices.
func NormalizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]interface{}:
		for k, item := range val {
			val[k] = NormalizeValue(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = NormalizeValue(item)
		}
		return val
	}
	return v
}
