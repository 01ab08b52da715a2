package encoding_test

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/coinagent/encoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quote struct {
	Name  string  `json:"name"`
	Price float64 `json:"currentPrice"`
	Meta  *meta   `json:"meta,omitempty"`
}

type meta struct {
	Tier string `json:"tier"`
}

func TestMarshal(t *testing.T) {
	q := quote{Name: "Bitcoin", Price: 65000.5, Meta: &meta{Tier: "major"}}

	t.Run("json", func(t *testing.T) {
		bs, err := encoding.Marshal(encoding.ModeJSON, q)
		require.NoError(t, err)
		assert.Equal(t, "{\n  \"name\": \"Bitcoin\",\n  \"currentPrice\": 65000.5,\n  \"meta\": {\n    \"tier\": \"major\"\n  }\n}", string(bs))

		def, err := encoding.Marshal("", q)
		require.NoError(t, err)
		assert.Equal(t, bs, def)
	})

	t.Run("yaml", func(t *testing.T) {
		bs, err := encoding.Marshal("YAML", q)
		require.NoError(t, err)
		assert.Equal(t, "currentPrice: 65000.5\nmeta:\n    tier: major\nname: Bitcoin\n", string(bs))
	})

	t.Run("toml", func(t *testing.T) {
		bs, err := encoding.Marshal(encoding.ModeTOML, q)
		require.NoError(t, err)
		s := string(bs)
		assert.Contains(t, s, "currentPrice = 65000.5")
		assert.Contains(t, s, `name = "Bitcoin"`)
		assert.Contains(t, s, "[meta]")
		assert.Contains(t, s, `tier = "major"`)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := encoding.Marshal("xml", q)
		assert.True(t, errors.Is(err, encoding.ErrUnsupportedMode))
		assert.EqualError(t, err, `mode "xml": unsupported encoding mode`)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := encoding.Marshal(encoding.ModeTOML, []string{"a"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "value must be an object")
	})
}

func TestWrite(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, encoding.Write(&b, encoding.ModeJSON, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", b.String())
}
