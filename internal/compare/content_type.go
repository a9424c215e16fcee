package compare

import (
	"encoding/json"
	"strings"
)

// ContentType is the structural kind detected for a response body. It is
// independent of any Content-Type header the server sent.
type ContentType string

const (
	ContentJSON ContentType = "json"
	ContentXML  ContentType = "xml"
	ContentText ContentType = "text"
)

// Classify detects whether text is JSON, XML or opaque text. Only the trimmed
// input is inspected, so the result is a pure function of it.
func Classify(text string) ContentType {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if json.Valid([]byte(trimmed)) {
			return ContentJSON
		}
	}

	if strings.HasPrefix(trimmed, "<") {
		if _, err := parseXML(trimmed); err == nil {
			return ContentXML
		}
	}

	return ContentText
}
