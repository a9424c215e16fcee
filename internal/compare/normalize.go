package compare

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// maxUnwrapDepth caps how many times nested JSON-encoded strings are unwrapped
// along one path. Strings past the cap are kept verbatim.
const maxUnwrapDepth = 64

// NormalizeFunc canonicalizes text of one content type. A returned error means
// normalization broke unexpectedly; unparsable input is returned unchanged.
type NormalizeFunc func(text string) (string, error)

// NormalizeText is the identity normalizer.
func NormalizeText(text string) (string, error) {
	return text, nil
}

// NormalizeJSON parses text, replaces every string value that is itself valid
// JSON with its parsed and normalized value, and re-encodes with sorted keys
// and two-space indentation. Input that does not parse is returned as-is.
func NormalizeJSON(text string) (string, error) {
	v, err := decodeJSON(text)
	if err != nil {
		return text, nil
	}
	v = unwrapJSONStrings(v, 0)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode normalized json: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// NormalizeXML re-serializes a well-formed document with canonical indentation.
// Input that does not parse is returned as-is.
func NormalizeXML(text string) (string, error) {
	doc, err := parseXML(strings.TrimSpace(text))
	if err != nil {
		return text, nil
	}
	return renderXML(doc)
}

// decodeJSON decodes exactly one JSON value, keeping numbers as json.Number
// so they re-encode with their original spelling.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("json: trailing data after top-level value")
	}
	return v, nil
}

func unwrapJSONStrings(v any, depth int) any {
	switch x := v.(type) {
	case map[string]any:
		for k, item := range x {
			x[k] = unwrapJSONStrings(item, depth)
		}
		return x
	case []any:
		for i, item := range x {
			x[i] = unwrapJSONStrings(item, depth)
		}
		return x
	case string:
		if depth >= maxUnwrapDepth {
			return x
		}
		parsed, err := decodeJSON(x)
		if err != nil {
			return x
		}
		return unwrapJSONStrings(parsed, depth+1)
	default:
		return v
	}
}
