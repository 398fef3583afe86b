// Package transform describes the fixed function library available to DML
// rules: the TRANSFORM functions and the AGGREGATE functions.
//
// A Registry is an immutable value built once and passed explicitly to the
// validator and the generator. The validator checks names and argument counts
// against it; the generator reads the runtime function each entry lowers to.
package transform
