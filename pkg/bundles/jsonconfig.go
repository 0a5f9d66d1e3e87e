package bundles

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/5minds/create-processcube-app/pkg/errors"
)

// DatabaseSettings is shared by both integration configs
type DatabaseSettings struct {
	Dialect string `json:"dialect"`
	Storage string `json:"storage,omitempty"`
}

// decodeStrict decodes a single JSON document into v, rejecting unknown
// fields and trailing data.
func decodeStrict(data []byte, v interface{}, bundle, file string) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(err, errors.ErrMalformedData, "bundle %s: %s is not a valid config", bundle, file).
			WithDetail("bundle", bundle).
			WithDetail("file", file)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.Newf(errors.ErrMalformedData, "bundle %s: %s has trailing data", bundle, file).
			WithDetail("bundle", bundle).
			WithDetail("file", file)
	}
	return nil
}

// encode serializes v with two-space indentation and a trailing newline
func encode(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to encode config")
	}
	return append(data, '\n'), nil
}
