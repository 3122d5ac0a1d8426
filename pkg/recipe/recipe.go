package recipe

import (
	"github.com/ironclad/converge/pkg/types"
)

// InputKind is the closed set of recipe input types.
type InputKind string

const (
	InputString InputKind = "string"
	InputInt    InputKind = "int"
	InputBool   InputKind = "bool"
	InputPath   InputKind = "path"
	InputEnum   InputKind = "enum"
)

// Input declares one parameter a recipe accepts.
type Input struct {
	Kind    InputKind   `yaml:"kind"`
	Default interface{} `yaml:"default,omitempty"`
	Min     *int        `yaml:"min,omitempty"`
	Max     *int        `yaml:"max,omitempty"`
	Choices []string    `yaml:"choices,omitempty"`
}

// Recipe is a reusable, parameterized bundle of resources.
type Recipe struct {
	ID          string                       `yaml:"id"`
	Description string                       `yaml:"description,omitempty"`
	Inputs      *types.OrderedMap[Input]     `yaml:"inputs"`
	Resources   *types.OrderedMap[types.Resource] `yaml:"resources"`
}
