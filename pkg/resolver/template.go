package resolver

import (
	"fmt"
	"strings"

	"github.com/ironclad/converge/pkg/types"
)

// machineFields is the closed set of fields a machine.NAME.FIELD
// reference may address.
var machineFields = map[string]func(types.Machine) string{
	"addr":     func(m types.Machine) string { return m.Addr },
	"hostname": func(m types.Machine) string { return m.Hostname },
	"user":     func(m types.Machine) string { return m.User },
	"arch":     func(m types.Machine) string { return m.Arch },
}

// Substitute scans s left to right for {{ key }} spans. After each
// substitution the scan resumes immediately past the replacement, so a
// substituted value containing literal "{{" is never re-interpreted.
// key is either "params.X" (resolved from params) or
// "machine.NAME.FIELD" (resolved from machines); either form fails
// loudly on an unknown reference. An unclosed "{{" is an error.
func Substitute(s string, params map[string]interface{}, machines map[string]types.Machine) (string, error) {
	var out strings.Builder
	pos := 0
	for {
		idx := strings.Index(s[pos:], "{{")
		if idx == -1 {
			out.WriteString(s[pos:])
			return out.String(), nil
		}
		out.WriteString(s[pos : pos+idx])
		start := pos + idx + 2
		end := strings.Index(s[start:], "}}")
		if end == -1 {
			return "", fmt.Errorf("unclosed template brace in %q", s)
		}
		key := strings.TrimSpace(s[start : start+end])
		value, err := resolveKey(key, params, machines)
		if err != nil {
			return "", err
		}
		out.WriteString(value)
		pos = start + end + 2
	}
}

func resolveKey(key string, params map[string]interface{}, machines map[string]types.Machine) (string, error) {
	switch {
	case strings.HasPrefix(key, "params."):
		name := strings.TrimPrefix(key, "params.")
		v, ok := params[name]
		if !ok {
			return "", fmt.Errorf("unknown template parameter %q", name)
		}
		return fmt.Sprintf("%v", v), nil

	case strings.HasPrefix(key, "machine."):
		rest := strings.TrimPrefix(key, "machine.")
		parts := strings.SplitN(rest, ".", 2)
		if len(parts) != 2 {
			return "", fmt.Errorf("malformed machine reference %q", key)
		}
		name, field := parts[0], parts[1]
		m, ok := machines[name]
		if !ok {
			return "", fmt.Errorf("unknown machine %q in template reference", name)
		}
		getter, ok := machineFields[field]
		if !ok {
			return "", fmt.Errorf("unknown machine field %q in template reference", field)
		}
		return getter(m), nil

	default:
		return "", fmt.Errorf("unknown template reference %q", key)
	}
}

// stringFields lists the Resource fields template substitution applies
// to, in the order spec.md names them.
var stringFields = []struct {
	get func(*types.Resource) *string
}{
	{func(r *types.Resource) *string { return &r.Content }},
	{func(r *types.Resource) *string { return &r.Source }},
	{func(r *types.Resource) *string { return &r.Path }},
	{func(r *types.Resource) *string { return &r.Target }},
	{func(r *types.Resource) *string { return &r.Owner }},
	{func(r *types.Resource) *string { return &r.Group }},
	{func(r *types.Resource) *string { return &r.Mode }},
	{func(r *types.Resource) *string { return &r.Name }},
}

// ResolveResource substitutes templates across a resource's text
// fields (content, source, path, target, owner, group, mode, name,
// options) and returns the resolved copy.
func ResolveResource(r types.Resource, params map[string]interface{}, machines map[string]types.Machine) (types.Resource, error) {
	resolved := r
	for _, f := range stringFields {
		field := f.get(&resolved)
		if *field == "" {
			continue
		}
		v, err := Substitute(*field, params, machines)
		if err != nil {
			return types.Resource{}, err
		}
		*field = v
	}
	if len(r.Options) > 0 {
		opts := make(map[string]string, len(r.Options))
		for k, v := range r.Options {
			rv, err := Substitute(v, params, machines)
			if err != nil {
				return types.Resource{}, err
			}
			opts[k] = rv
		}
		resolved.Options = opts
	}
	return resolved, nil
}
