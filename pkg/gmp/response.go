package gmp

import (
	"errors"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrMalformedResponse indicates the daemon's reply could not be parsed as
// XML (including the empty reply left behind by a swallowed transient
// authentication failure). Callers decide whether that is retryable.
var ErrMalformedResponse = errors.New("malformed gmp response")

// Response wraps a parsed GMP XML reply and exposes query-path extraction
// over it.
type Response struct {
	doc *xmlquery.Node
}

// ParseResponse parses a raw daemon reply. An empty or syntactically invalid
// reply yields ErrMalformedResponse.
func ParseResponse(raw string) (*Response, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMalformedResponse
	}
	doc, err := xmlquery.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, ErrMalformedResponse
	}
	return &Response{doc: doc}, nil
}

// Nodes returns every node matching the XPath expression.
func (r *Response) Nodes(path string) []*xmlquery.Node {
	return xmlquery.Find(r.doc, path)
}

// First returns the first node matching the XPath expression, or nil.
func (r *Response) First(path string) *xmlquery.Node {
	return xmlquery.FindOne(r.doc, path)
}

// Text returns the text content of the first match, with surrounding
// whitespace removed. A missing node yields the empty string, mirroring
// XPath string() semantics.
func (r *Response) Text(path string) string {
	n := xmlquery.FindOne(r.doc, path)
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.InnerText())
}
