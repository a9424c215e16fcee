package compare

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
)

var (
	errNoRootElement   = errors.New("xml: no root element")
	errMultipleRoots   = errors.New("xml: junk after document element")
	errTextOutsideRoot = errors.New("xml: character data outside document element")
	errDuplicateAttr   = errors.New("xml: duplicate attribute")
)

const xmlHeader = `<?xml version="1.0" ?>`

// parseXML parses a well-formed document with exactly one root element and
// no character data outside it.
func parseXML(text string) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		// text is already decoded; a declared encoding must not re-decode it
		CharsetReader: func(_ string, input io.Reader) (io.Reader, error) {
			return input, nil
		},
		ValidateInput:          true,
		PreserveDuplicateAttrs: true,
	}
	if err := doc.ReadFromString(text); err != nil {
		return nil, err
	}

	switch n := len(doc.ChildElements()); {
	case n == 0:
		return nil, errNoRootElement
	case n > 1:
		return nil, errMultipleRoots
	}
	for _, tok := range doc.Child {
		if cd, ok := tok.(*etree.CharData); ok && strings.TrimSpace(cd.Data) != "" {
			return nil, errTextOutsideRoot
		}
	}
	if err := checkAttrs(doc.Root()); err != nil {
		return nil, err
	}
	return doc, nil
}

func checkAttrs(e *etree.Element) error {
	seen := make(map[string]struct{}, len(e.Attr))
	for _, a := range e.Attr {
		key := a.FullKey()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w %q on <%s>", errDuplicateAttr, key, e.FullTag())
		}
		seen[key] = struct{}{}
	}
	for _, c := range e.ChildElements() {
		if err := checkAttrs(c); err != nil {
			return err
		}
	}
	return nil
}

// renderXML writes doc with a fixed XML declaration and two-space
// indentation. Text is trimmed and whitespace-only text dropped first, so the
// output does not depend on the input's layout. An element whose only child
// is text stays on one line.
func renderXML(doc *etree.Document) (string, error) {
	for i := len(doc.Child) - 1; i >= 0; i-- {
		if pi, ok := doc.Child[i].(*etree.ProcInst); ok && pi.Target == "xml" {
			doc.RemoveChildAt(i)
		}
	}
	trimText(&doc.Element)

	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
	}
	doc.Indent(2)

	body, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("write xml: %w", err)
	}
	return xmlHeader + "\n" + strings.TrimRight(body, "\n") + "\n", nil
}

func trimText(e *etree.Element) {
	for i := len(e.Child) - 1; i >= 0; i-- {
		switch c := e.Child[i].(type) {
		case *etree.CharData:
			s := strings.TrimSpace(c.Data)
			if s == "" {
				e.RemoveChildAt(i)
				continue
			}
			c.SetData(s)
		case *etree.Element:
			trimText(c)
		}
	}
}
