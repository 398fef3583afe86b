// Package gen lowers a validated mapping to a self-contained Go mapper.
//
// The generated file declares a dmlrt.Program: the sources with their
// readers, an optional enrichment query, the target writer, and the rules
// lowered to plain Go functions. Each statement of RULES becomes one
// function with the signature
//
//	func ruleN(in *dmlrt.Input, scope any, out *dmlrt.Record) error
//
// where scope is the current loop element. Loops and IF blocks call the
// functions of their nested statements. AGGREGATE rules are folded by a
// single aggregate function before records are mapped.
//
// Output is deterministic: functions are numbered in source order and
// formatted with go/format.
package gen
