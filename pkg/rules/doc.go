// Package rules implements the rule-evaluation engine: a small interpreter that
// maps a rule kind plus its parameter to a boolean verdict against a trimmed
// string value.
//
// Rules are plain values. Each kind accepts exactly one parameter shape
// (Length, Pattern, Predicate, FieldRef or none); Rule.Validate rejects a
// mismatched shape before the rule is ever evaluated. Unknown kinds are not
// rejected up front: Engine.Evaluate reports them as UnrecognizedRuleError so
// the failure surfaces from the validation pass that hits them.
//
// The single cross-field kind, equals, reads the other field through the
// Lookup passed to Evaluate; the engine never touches document state itself.
package rules
