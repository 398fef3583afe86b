// Package diagnostic collects positioned, coded messages produced while
// checking a mapping.
//
// Validation never stops at the first problem: every check adds to a shared
// Diagnostics value and the caller decides whether errors are fatal. Warnings
// and infos never fail a compile.
//
// Key capabilities:
//   - Stable codes (UnknownAlias, DuplicateModifier, ...) for tooling and tests
//   - Line/column positions taken from the DML source
//   - "did you mean" suggestions for misspelled names
package diagnostic
