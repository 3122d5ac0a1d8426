// Package hash provides content-addressed fingerprints built on BLAKE3.
//
// Every output is the string "blake3:" followed by 64 lowercase hex
// characters. HashDirectory and CompositeHash are order-sensitive by
// design: their contract is what makes the planner's desired-state
// hash a pure, field-ordering-sensitive function (see pkg/planner).
package hash
