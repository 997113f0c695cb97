// Package schema defines the exceptions document format and its validation.
//
// A document is authored as JSON (or YAML) and declares, per exception, a
// project id pattern and the service accounts to provision for matching
// projects. Loading validates the document in full and reports every
// violation found, rather than stopping at the first one.
package schema
