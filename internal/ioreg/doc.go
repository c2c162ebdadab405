// Package ioreg holds IORegistry query results.
//
// A Snapshot is treated as an opaque document: it can be rendered to text
// for display and exported as an XML property list, but nothing here
// interprets node semantics.
package ioreg
