package gvm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gvmrun/gvmrun/pkg/gmp"
)

// GetReport fetches the finished report in the requested format and returns
// its raw bytes.
//
// The structured XML format comes back as an XML subtree, serialized
// verbatim. Every other format is transported as base64 text inside the
// report element and decoded here. An empty or unreadable reply yields
// ErrNoReport, which callers must treat as a non-fatal outcome.
func (c *Client) GetReport(ctx context.Context, reportID, formatID string) ([]byte, error) {
	raw, err := c.bridge.Send(ctx, gmp.GetReports(reportID, formatID))
	if err != nil {
		return nil, err
	}
	resp, err := gmp.ParseResponse(raw)
	if err != nil {
		return nil, ErrNoReport
	}

	node := resp.First("//get_reports_response/report")
	if node == nil {
		return nil, ErrNoReport
	}

	if formatID == gmp.ReportFormatXML {
		return []byte(strings.TrimSpace(node.OutputXML(true))), nil
	}

	encoded := stripSpace(node.InnerText())
	if encoded == "" {
		return nil, ErrNoReport
	}
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode report payload: %w", err)
	}
	return payload, nil
}

// stripSpace removes all whitespace; the daemon wraps base64 payloads across
// lines.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
