package compare

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Comparer classifies, normalizes and diffs pairs of response bodies.
type Comparer struct {
	normalizers map[ContentType]NormalizeFunc
}

// NewComparer returns a Comparer using the JSON, XML and text normalizers.
func NewComparer() *Comparer {
	return &Comparer{
		normalizers: map[ContentType]NormalizeFunc{
			ContentJSON: NormalizeJSON,
			ContentXML:  NormalizeXML,
			ContentText: NormalizeText,
		},
	}
}

var defaultComparer = NewComparer()

// Compare diffs text1 (source) against text2 (target) with the default Comparer.
func Compare(text1, text2 string) (string, Metrics) {
	return defaultComparer.Compare(text1, text2)
}

// Normalize canonicalizes text according to its detected content type.
func Normalize(text string) (string, error) {
	return defaultComparer.normalizers[Classify(text)](text)
}

// Compare returns the unified diff between the normalized forms of text1 and
// text2 plus metrics. Bodies of different content types are not diffed; the
// mismatch itself is the result.
func (c *Comparer) Compare(text1, text2 string) (string, Metrics) {
	ct1, ct2 := Classify(text1), Classify(text2)
	if ct1 != ct2 {
		diff := fmt.Sprintf("Content type mismatch:\n- Response 1: %s\n- Response 2: %s", ct1, ct2)
		return diff, Metrics{
			TypeMismatch:    true,
			ContentType1:    ct1,
			ContentType2:    ct2,
			DifferenceCount: -1,
		}
	}

	norm1, norm2, err := c.normalizePair(ct1, text1, text2)
	if err != nil {
		diff, m := c.diffNormalized(text1, text2, text1, text2, ContentText)
		switch ct1 {
		case ContentJSON:
			m.JSONParseError = err.Error()
		case ContentXML:
			m.XMLParseError = err.Error()
		}
		return diff, m
	}

	return c.diffNormalized(text1, text2, norm1, norm2, ct1)
}

func (c *Comparer) normalizePair(ct ContentType, text1, text2 string) (string, string, error) {
	normalize, ok := c.normalizers[ct]
	if !ok {
		normalize = NormalizeText
	}
	norm1, err := normalize(text1)
	if err != nil {
		return "", "", err
	}
	norm2, err := normalize(text2)
	if err != nil {
		return "", "", err
	}
	return norm1, norm2, nil
}

func (c *Comparer) diffNormalized(raw1, raw2, norm1, norm2 string, ct ContentType) (string, Metrics) {
	lines := unifiedDiff(splitLines(norm1), splitLines(norm2))
	return strings.Join(lines, "\n"), Metrics{
		DifferenceCount:     len(lines),
		Response1Length:     utf8.RuneCountInString(raw1),
		Response2Length:     utf8.RuneCountInString(raw2),
		ContentType:         ct,
		NormalizedIdentical: norm1 == norm2,
	}
}
