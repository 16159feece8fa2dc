// Package termdoc implements dom.Document for interactive terminal sessions.
//
// A Document is declared with an ordered list of fields. Collect prompts for
// each field through a PromptDriver (survey by default), Submit collects and
// then hands control to the registered submit interceptor. Selectors are field
// names; a field name used as a display target addresses that field's message
// slot, whose messages are printed with the theme's error prefix.
package termdoc
