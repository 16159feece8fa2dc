// Package testsupport collects helpers shared by package tests: a silent
// logger, a frozen clock, and golden-file utilities honouring UPDATE_GOLDENS.
package testsupport
