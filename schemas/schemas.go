// Package schemas embeds the JSON Schemas for documents accepted at the API boundary.
package schemas

import _ "embed"

// Resume is the JSON Schema for resume request documents
//
//go:embed resume.schema.json
var Resume string
