// Package ant is the public surface of the memoizing CEK substrate: word
// and sequence conversions, configuration, and the typed error a caller
// sees when a structural invariant is violated. The substrate itself
// lives under internal/ant and is not exported directly -- callers drive
// it through cek.Driver and the conversions in this package.
package ant
