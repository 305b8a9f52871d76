// Package mappings ships the curated desktop-id table as an embedded data
// asset so it can be maintained without touching code. A run can override it
// with an external file of the same format.
package mappings

import _ "embed"

//go:embed desktop-ids.yaml
var DesktopIDs []byte
