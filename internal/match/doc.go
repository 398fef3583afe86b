// Package match scores how close two names are. The validator uses it to
// attach "did you mean" suggestions to unknown aliases, fields, transforms and
// configuration keys.
package match
