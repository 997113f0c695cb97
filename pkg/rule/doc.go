// Package rule evaluates exceptions against a target project id.
package rule
