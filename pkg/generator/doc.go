// Package generator turns a resolved resource into the shell scripts
// the executor runs on a target machine: one to converge it
// ("apply"), one to read its observable state back ("state query").
// Script generation uses ordinary text/template — unlike resolver's
// field substitution, there is no "resume past the replacement"
// requirement here, since a generated script is never itself scanned
// for further templates.
package generator
