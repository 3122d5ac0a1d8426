// Package recipe expands a parameterized bundle of resources into the
// main configuration's namespace. A recipe declares typed inputs and an
// ordered set of resources; instantiation validates and stringifies the
// inputs, substitutes them into the resource bodies, and rewrites
// sibling references so the whole bundle drops into the configuration
// under a "RECIPE_ID/" prefix without colliding with other resources.
package recipe
