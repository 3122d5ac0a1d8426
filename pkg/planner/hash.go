package planner

import (
	"sort"
	"strings"

	"github.com/ironclad/converge/pkg/hash"
	"github.com/ironclad/converge/pkg/types"
)

// fieldListSep joins the elements of a collection-valued field
// (packages, options) into a single scalar before it becomes one
// CompositeHash part. Using a dedicated separator here, distinct from
// CompositeHash's own \x00 field terminator, keeps "two packages" from
// ever hashing the same as "one package plus an empty next field".
const fieldListSep = "\x1f"

// HashDesiredState is the canonical fingerprint of a resolved resource:
// a pure function of (kind, effective state, provider, packages, path,
// content, source, name, owner, group, mode, fs_type, options), with
// each field contributing as one CompositeHash part. Field order is
// part of the contract — reordering these fields must change the hash.
func HashDesiredState(r types.Resource) string {
	state := r.State
	if state == "" {
		state = types.DefaultStateForKind(r.Type)
	}

	return hash.CompositeHash(
		string(r.Type),
		state,
		r.Provider,
		strings.Join(r.Packages, fieldListSep),
		r.Path,
		r.Content,
		r.Source,
		r.Name,
		r.Owner,
		r.Group,
		r.Mode,
		r.FSType,
		canonicalOptions(r.Options),
	)
}

func canonicalOptions(options map[string]string) string {
	if len(options) == 0 {
		return ""
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + options[k]
	}
	return strings.Join(parts, fieldListSep)
}
