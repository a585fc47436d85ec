// Package conv converts integer widths with bounds checks. It is used where
// counts read from disk or computed from hierarchy sizes become slice lengths.
package conv
