// Package parser turns a YAML configuration document into the typed
// types.Configuration model and validates it. Parsing never partially
// applies — a malformed document returns an error and no partial
// Configuration. Validation is a separate pass that collects every
// diagnostic instead of stopping at the first one.
package parser
