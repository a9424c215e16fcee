package compare

import "encoding/json"

// Metrics summarizes one comparison. Its JSON form carries exactly the keys of
// the branch that produced it:
//
//	type mismatch: content_type1, content_type2, difference_count (-1), type_mismatch (true)
//	compared:      difference_count, response1_length, response2_length, content_type,
//	               normalized_identical, plus json_parse_error / xml_parse_error when
//	               normalization failed and the raw text was diffed instead
type Metrics struct {
	TypeMismatch bool
	ContentType1 ContentType
	ContentType2 ContentType

	DifferenceCount     int
	Response1Length     int
	Response2Length     int
	ContentType         ContentType
	NormalizedIdentical bool

	JSONParseError string
	XMLParseError  string
}

type mismatchMetrics struct {
	ContentType1    ContentType `json:"content_type1"`
	ContentType2    ContentType `json:"content_type2"`
	DifferenceCount int         `json:"difference_count"`
	TypeMismatch    bool        `json:"type_mismatch"`
}

type comparedMetrics struct {
	DifferenceCount     int         `json:"difference_count"`
	Response1Length     int         `json:"response1_length"`
	Response2Length     int         `json:"response2_length"`
	ContentType         ContentType `json:"content_type"`
	NormalizedIdentical bool        `json:"normalized_identical"`
	JSONParseError      string      `json:"json_parse_error,omitempty"`
	XMLParseError       string      `json:"xml_parse_error,omitempty"`
}

func (m Metrics) MarshalJSON() ([]byte, error) {
	if m.TypeMismatch {
		return json.Marshal(mismatchMetrics{
			ContentType1:    m.ContentType1,
			ContentType2:    m.ContentType2,
			DifferenceCount: m.DifferenceCount,
			TypeMismatch:    true,
		})
	}
	return json.Marshal(comparedMetrics{
		DifferenceCount:     m.DifferenceCount,
		Response1Length:     m.Response1Length,
		Response2Length:     m.Response2Length,
		ContentType:         m.ContentType,
		NormalizedIdentical: m.NormalizedIdentical,
		JSONParseError:      m.JSONParseError,
		XMLParseError:       m.XMLParseError,
	})
}

// UnmarshalJSON accepts either branch shape.
func (m *Metrics) UnmarshalJSON(data []byte) error {
	var all struct {
		mismatchMetrics
		Response1Length     int         `json:"response1_length"`
		Response2Length     int         `json:"response2_length"`
		ContentType         ContentType `json:"content_type"`
		NormalizedIdentical bool        `json:"normalized_identical"`
		JSONParseError      string      `json:"json_parse_error"`
		XMLParseError       string      `json:"xml_parse_error"`
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	*m = Metrics{
		TypeMismatch:        all.TypeMismatch,
		ContentType1:        all.ContentType1,
		ContentType2:        all.ContentType2,
		DifferenceCount:     all.DifferenceCount,
		Response1Length:     all.Response1Length,
		Response2Length:     all.Response2Length,
		ContentType:         all.ContentType,
		NormalizedIdentical: all.NormalizedIdentical,
		JSONParseError:      all.JSONParseError,
		XMLParseError:       all.XMLParseError,
	}
	return nil
}
