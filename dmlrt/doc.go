// Package dmlrt is the runtime imported by generated mappers.
//
// A generated program declares a Program: its sources with their readers,
// an optional enrichment query, the target writer and the lowered rules.
// Main parses the command line, builds the record stream, folds aggregates,
// maps every record and writes the target.
//
// Records are ordered so that CSV columns, XML elements and JSON keys come
// out in the order the rules set them.
package dmlrt
