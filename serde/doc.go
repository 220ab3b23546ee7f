// Package serde turns the server's loosely typed XML into Go structs.
//
// Struct fields opt in with a prtg tag listing the places a value may come from,
// in priority order:
//
//	type Sensor struct {
//		ID        int       `prtg:"objid" required:"true"`
//		Message   string    `prtg:"message_raw,message"`
//		LastCheck *time.Time `prtg:"lastcheck_raw"`
//		Probe     string    `prtg:"@probe"`
//		Tags      []string  `prtg:"tags" split:"true"`
//		Coverage  float64   `prtg:"coverage_raw" convert:"percent"`
//	}
//
// A name is a child element, @name an attribute and #text the element's own
// text. The first candidate that is present wins, even when it is empty.
//
// Two strategies implement the same contract: Interpreted walks the schema on
// every call, Compiled builds a per-type plan of closures once and reuses it.
// Their output is identical, errors included.
package serde
