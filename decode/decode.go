// Package decode holds the tolerant-decoding conventions every call site
// follows when reading this backend's inconsistently shaped payloads:
// numeric-or-string identifiers, bare arrays vs wrapped objects, optional
// sub-resources that 404 instead of returning null.
package decode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"gametrade/apierr"
)

// ID is the domain's string identifier. The wire format sometimes carries
// numbers; the conversion to string happens here, exactly once, at decode
// time, and never downstream.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(strconv.FormatInt(n, 10))
		return nil
	}
	return fmt.Errorf("identifier %s is neither a string nor an integer", data)
}

// Strategy is one decode attempt in an ordered fallback chain.
type Strategy[T any] struct {
	Name   string
	Decode func([]byte) (T, error)
}

// Try runs the strategies in order and returns the first success. Every
// failed tier is logged; when all fail, the documented default is returned.
// Nothing escapes this boundary.
func Try[T any](log zerolog.Logger, data []byte, strategies []Strategy[T], fallback T) T {
	for _, s := range strategies {
		v, err := s.Decode(data)
		if err == nil {
			return v
		}
		log.Debug().Str("strategy", s.Name).Err(err).Msg("decode strategy failed")
	}
	log.Warn().Int("strategies", len(strategies)).Msg("all decode strategies failed, using default")
	return fallback
}

// List decodes a payload that may be a bare JSON array or an object
// wrapping the array under one of the given keys.
func List[T any](data []byte, wrapperKeys ...string) ([]T, error) {
	var items []T
	if err := json.Unmarshal(data, &items); err == nil {
		return items, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("payload is neither an array nor an object: %w", err)
	}
	for _, key := range wrapperKeys {
		raw, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("field %q is not the expected list: %w", key, err)
		}
		return items, nil
	}
	return nil, fmt.Errorf("no list found under keys %v", wrapperKeys)
}

// Optional translates a 404 on a fetch of optional related data into the
// zero value with ok == false. Every other failure propagates unchanged;
// mandatory fetches must not route through here.
func Optional[T any](v T, err error) (value T, ok bool, outErr error) {
	if err == nil {
		return v, true, nil
	}
	if apierr.IsStatus(err, http.StatusNotFound) {
		var zero T
		return zero, false, nil
	}
	var zero T
	return zero, false, err
}
