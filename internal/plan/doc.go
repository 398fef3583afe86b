// Package plan checks a parsed mapping and produces the annotated form
// consumed by code generation.
//
// Validation pipeline:
//  1. Resolve source aliases and build typed per-format options
//  2. Build target options
//  3. Analyze the component (schema types, query tables, result columns)
//  4. Check every rule: modifiers, casts, transforms, aggregates and field
//     references, including references against the post-query columns
//  5. Collect all diagnostics; a mapping with errors yields no ValidatedMapping
package plan
