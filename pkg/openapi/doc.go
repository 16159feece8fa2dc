// Package openapi derives declarative form definitions from OpenAPI 3
// documents. The request-body schema of an operation becomes a
// formconfig.Form: each property turns into a field whose rules mirror the
// schema constraints (required, minLength, maxLength, pattern, email format),
// plus any rules listed under the x-formguard-rules property extension.
//
// Documents are loaded from files, an fs.FS, or over HTTP when enabled, and
// parsed with kin-openapi.
package openapi
