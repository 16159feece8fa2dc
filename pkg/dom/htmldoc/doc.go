// Package htmldoc implements dom.Document over a parsed HTML page.
//
// Selectors are CSS selectors evaluated with goquery. Field state is reflected
// by toggling a pair of mutually exclusive classes, and error messages are
// rendered through a go-template engine, from the bundled template or an inline
// pongo2 override, and sanitised with bluemonday before they replace the
// container's content. Class names may be supplied directly or
// resolved from go-theme tokens.
//
// Submit simulates the browser submitting a form: native submission is
// suppressed and the interceptor registered by the validator runs instead.
package htmldoc
