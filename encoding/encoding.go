// Package encoding renders values in the formats accepted by agent frameworks
// and humans: JSON, YAML and TOML.
package encoding

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Mode is the output format
type Mode = string

const (
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
	ModeTOML Mode = "toml"
)

// ModeDefault is used when no mode is given
var ModeDefault = ModeJSON

// ErrUnsupportedMode is returned for an unknown format
var ErrUnsupportedMode = errors.New("unsupported encoding mode")

// Marshal encodes v in the mode.
// YAML and TOML keys follow the JSON field names of v.
func Marshal(mode Mode, v any) ([]byte, error) {
	switch strings.ToLower(mode) {
	case "", ModeJSON:
		return json.MarshalIndent(v, "", "  ")
	case ModeYAML:
		m, err := toMap(v)
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(m)
	case ModeTOML:
		m, err := toMap(v)
		if err != nil {
			return nil, err
		}
		var b bytes.Buffer
		if err = toml.NewEncoder(&b).Encode(m); err != nil {
			return nil, errors.Wrap(err, "failed to encode TOML")
		}
		return b.Bytes(), nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedMode, "mode %q", mode)
	}
}

// Write encodes v to w
func Write(w io.Writer, mode Mode, v any) error {
	bs, err := Marshal(mode, v)
	if err != nil {
		return err
	}
	if len(bs) > 0 && bs[len(bs)-1] != '\n' {
		bs = append(bs, '\n')
	}
	_, err = w.Write(bs)
	return errors.WithStack(err)
}

// toMap converts v to a generic map keyed by the JSON field names
func toMap(v any) (map[string]any, error) {
	js, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode JSON")
	}
	m := map[string]any{}
	if err = json.Unmarshal(js, &m); err != nil {
		return nil, errors.Wrap(err, "value must be an object")
	}
	return m, nil
}
