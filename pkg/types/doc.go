// Package types defines the shared vocabulary of the dstreamkit site
// assignment algorithms: the unsigned width constraint, checked-assignment
// results, and typed errors.
//
// Design goals:
//   - Width is a type parameter; one implementation serves uint8..uint64.
//   - Absence of a site is an explicit result, never a sentinel value.
//   - Typed errors with stable categories (surface-size/horizon/overflow/...).
//
// This package depends only on golang.org/x/exp/constraints.
package types
