// Package spec embeds the OpenAPI specification for the tagtrack API.
// It is imported by the HTTP server to serve the spec at /openapi.yaml so the
// document and the running code always ship together.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte
