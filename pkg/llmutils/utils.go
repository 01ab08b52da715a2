package llmutils

import (
	"bytes"
	"encoding/json"
	"strings"
)

// CleanJSON returns the JSON object or array found in the model reply,
// dropping any leading chatter like "Sure, here you go:" and trailing
// text or backticks.
func CleanJSON(bs []byte) []byte {
	start := firstIndex(bs, '{', '[')
	if start < 0 {
		return bs
	}
	bs = bs[start:]

	end := lastIndex(bs, '}', ']')
	if end < 0 {
		return bs
	}
	return bs[:end+1]
}

func firstIndex(bs []byte, a, b byte) int {
	i, j := bytes.IndexByte(bs, a), bytes.IndexByte(bs, b)
	switch {
	case i < 0:
		return j
	case j < 0:
		return i
	default:
		return min(i, j)
	}
}

func lastIndex(bs []byte, a, b byte) int {
	return max(bytes.LastIndexByte(bs, a), bytes.LastIndexByte(bs, b))
}

// UnmarshalInput decodes the tool input produced by a model into v
func UnmarshalInput(input string, v any) error {
	return json.Unmarshal(CleanJSON([]byte(input)), v)
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}
