package gmp

import (
	"fmt"
	"sort"
)

// The daemon does not expose a discovery API for these identifiers; GVM ships
// them as fixed UUIDs per release. The tables below match Greenbone 20.08.

// ReportFormatXML is the structured XML report format. Reports requested in
// this format come back as an XML subtree; every other format is transported
// as base64 text.
const ReportFormatXML = "a994b278-1f62-11e1-96ac-406186ea4fc5"

var scanProfiles = map[string]string{
	"Discovery":                   "8715c877-47a0-438d-98a3-27c7a6ab2196",
	"Empty":                       "085569ce-73ed-11df-83c3-002264764cea",
	"Full and fast":               "daba56c8-73ec-11df-a475-002264764cea",
	"Full and fast ultimate":      "698f691e-7489-11df-9d8c-002264764cea",
	"Full and very deep":          "708f25c4-7489-11df-8094-002264764cea",
	"Full and very deep ultimate": "74db13d6-7489-11df-91b9-002264764cea",
	"Host Discovery":              "2d3f051c-55ba-11e3-bf43-406186ea4fc5",
	"System Discovery":            "bbca7412-a950-11e3-9109-406186ea4fc5",
}

var reportFormats = map[string]string{
	"Anonymous XML": "5057e5cc-b825-11e4-9d0e-28d24461215b",
	"CSV Results":   "c1645568-627a-11e3-a660-406186ea4fc5",
	"ITG":           "77bd6c4a-1f62-11e1-abf0-406186ea4fc5",
	"PDF":           "c402cc3e-b531-11e1-9163-406186ea4fc5",
	"TXT":           "a3810a62-1f62-11e1-9219-406186ea4fc5",
	"XML":           ReportFormatXML,
}

var portLists = map[string]string{
	"All IANA Assigned TCP":         "33d0cd82-57c6-11e1-8ed1-406186ea4fc5",
	"All IANA Assigned TCP and UDP": "4a4717fe-57d2-11e1-9a26-406186ea4fc5",
	"All TCP and Nmap top 100 UDP":  "730ef368-57e2-11e1-a90f-406186ea4fc5",
}

var aliveTests = map[string]struct{}{
	"Scan Config Default":              {},
	"ICMP, TCP-ACK Service & ARP Ping": {},
	"TCP-ACK Service & ARP Ping":       {},
	"ICMP & ARP Ping":                  {},
	"ICMP & TCP-ACK Service Ping":      {},
	"ARP Ping":                         {},
	"TCP-ACK Service Ping":             {},
	"TCP-SYN Service Ping":             {},
	"ICMP Ping":                        {},
	"Consider Alive":                   {},
}

// ScanProfileID resolves a human-readable scan profile name to its daemon UUID.
func ScanProfileID(name string) (string, error) {
	id, ok := scanProfiles[name]
	if !ok {
		return "", fmt.Errorf("unknown scan profile %q", name)
	}
	return id, nil
}

// ReportFormatID resolves a report format name to its daemon UUID.
func ReportFormatID(name string) (string, error) {
	id, ok := reportFormats[name]
	if !ok {
		return "", fmt.Errorf("unknown report format %q", name)
	}
	return id, nil
}

// PortListID resolves a port selection name to its daemon UUID.
func PortListID(name string) (string, error) {
	id, ok := portLists[name]
	if !ok {
		return "", fmt.Errorf("unknown port list %q", name)
	}
	return id, nil
}

// ValidateAliveTest checks that the alive-test policy name is one the daemon
// accepts. Alive tests are passed to the daemon by name, not by UUID.
func ValidateAliveTest(name string) error {
	if _, ok := aliveTests[name]; !ok {
		return fmt.Errorf("unknown alive test %q", name)
	}
	return nil
}

// ScanProfileNames returns the known profile names, for CLI help output.
func ScanProfileNames() []string { return sortedKeys(scanProfiles) }

// ReportFormatNames returns the known report format names.
func ReportFormatNames() []string { return sortedKeys(reportFormats) }

// PortListNames returns the known port selection names.
func PortListNames() []string { return sortedKeys(portLists) }

// AliveTestNames returns the accepted alive-test policy names.
func AliveTestNames() []string {
	names := make([]string, 0, len(aliveTests))
	for name := range aliveTests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
