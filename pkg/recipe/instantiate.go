package recipe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ironclad/converge/pkg/types"
)

// resolveInputs validates the provided values against r.Inputs,
// defaulting and stringifying each one. It fails fast on the first
// invalid input, mirroring the parser's "type mismatches fail"
// language rather than the validator's "collect everything" contract.
func resolveInputs(r *Recipe, provided map[string]interface{}) (map[string]string, error) {
	resolved := make(map[string]string)
	if r.Inputs == nil {
		return resolved, nil
	}
	for _, name := range r.Inputs.Keys() {
		spec, _ := r.Inputs.Get(name)
		raw, ok := provided[name]
		if !ok {
			if spec.Default == nil {
				return nil, fmt.Errorf("recipe %s: input %q is required", r.ID, name)
			}
			raw = spec.Default
		}

		str, err := validateInput(r.ID, name, spec, raw)
		if err != nil {
			return nil, err
		}
		resolved[name] = str
	}
	return resolved, nil
}

func validateInput(recipeID, name string, spec Input, raw interface{}) (string, error) {
	switch spec.Kind {
	case InputString:
		s, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("recipe %s: input %q must be a string", recipeID, name)
		}
		return s, nil

	case InputPath:
		s, ok := raw.(string)
		if !ok || !strings.HasPrefix(s, "/") {
			return "", fmt.Errorf("recipe %s: input %q must be an absolute path", recipeID, name)
		}
		return s, nil

	case InputEnum:
		s, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("recipe %s: input %q must be a string", recipeID, name)
		}
		for _, c := range spec.Choices {
			if c == s {
				return s, nil
			}
		}
		return "", fmt.Errorf("recipe %s: input %q must be one of %v", recipeID, name, spec.Choices)

	case InputBool:
		b, ok := raw.(bool)
		if !ok {
			return "", fmt.Errorf("recipe %s: input %q must be a bool", recipeID, name)
		}
		return strconv.FormatBool(b), nil

	case InputInt:
		n, ok := asInt(raw)
		if !ok {
			return "", fmt.Errorf("recipe %s: input %q must be an int", recipeID, name)
		}
		if spec.Min != nil && n < *spec.Min {
			return "", fmt.Errorf("recipe %s: input %q must be >= %d", recipeID, name, *spec.Min)
		}
		if spec.Max != nil && n > *spec.Max {
			return "", fmt.Errorf("recipe %s: input %q must be <= %d", recipeID, name, *spec.Max)
		}
		return strconv.Itoa(n), nil

	default:
		return "", fmt.Errorf("recipe %s: input %q has unknown kind %q", recipeID, name, spec.Kind)
	}
}

func asInt(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// substituteInputs scans s left to right for {{inputs.X}} spans,
// resuming the scan past each replacement so a substituted value
// containing literal "{{" is never re-interpreted. This mirrors
// resolver.Substitute's algorithm but over a distinct namespace
// ("inputs." rather than "params."/"machine."), so it is kept as its
// own small pass rather than threaded through the resolver package.
func substituteInputs(s string, resolved map[string]string) (string, error) {
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
		name, ok := strings.CutPrefix(key, "inputs.")
		if !ok {
			return "", fmt.Errorf("unknown recipe template reference %q", key)
		}
		value, ok := resolved[name]
		if !ok {
			return "", fmt.Errorf("unknown recipe input %q", name)
		}
		out.WriteString(value)
		pos = start + end + 2
	}
}

var substitutedFields = []struct {
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

func namespace(recipeID, id string) string {
	return recipeID + "/" + id
}

// Instantiate expands r against machine, the caller-provided input
// values, and an external-dependency list, returning the expanded
// resources keyed "RECIPE_ID/NAME" in the recipe's resource order. Only
// the first resource in that order receives externalDeps.
func Instantiate(r *Recipe, machine string, inputs map[string]interface{}, externalDeps []string) (*types.OrderedMap[types.Resource], error) {
	resolved, err := resolveInputs(r, inputs)
	if err != nil {
		return nil, err
	}

	out := types.NewOrderedMap[types.Resource]()
	if r.Resources == nil {
		return out, nil
	}

	for i, name := range r.Resources.Keys() {
		src, _ := r.Resources.Get(name)
		res := src

		for _, f := range substitutedFields {
			field := f.get(&res)
			if *field == "" {
				continue
			}
			v, err := substituteInputs(*field, resolved)
			if err != nil {
				return nil, fmt.Errorf("recipe %s, resource %s: %w", r.ID, name, err)
			}
			*field = v
		}
		if len(src.Options) > 0 {
			opts := make(map[string]string, len(src.Options))
			for k, v := range src.Options {
				rv, err := substituteInputs(v, resolved)
				if err != nil {
					return nil, fmt.Errorf("recipe %s, resource %s: %w", r.ID, name, err)
				}
				opts[k] = rv
			}
			res.Options = opts
		}

		res.Machine = types.MachineRef{Names: []string{machine}}

		deps := make([]string, 0, len(src.DependsOn)+len(externalDeps))
		for _, d := range src.DependsOn {
			deps = append(deps, namespace(r.ID, d))
		}
		if i == 0 {
			deps = append(deps, externalDeps...)
		}
		res.DependsOn = deps

		restarts := make([]string, 0, len(src.RestartOn))
		for _, d := range src.RestartOn {
			restarts = append(restarts, namespace(r.ID, d))
		}
		res.RestartOn = restarts

		out.Set(namespace(r.ID, name), res)
	}

	return out, nil
}
