package resolver

import (
	"testing"

	"github.com/ironclad/converge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMachines() map[string]types.Machine {
	return map[string]types.Machine{
		"web1": {Hostname: "web1.local", Addr: "10.0.0.1", User: "root", Arch: "x86_64"},
	}
}

func TestSubstituteParams(t *testing.T) {
	out, err := Substitute("port={{ params.port }}", map[string]interface{}{"port": 8080}, nil)
	require.NoError(t, err)
	assert.Equal(t, "port=8080", out)
}

func TestSubstituteMachine(t *testing.T) {
	out, err := Substitute("addr={{machine.web1.addr}}", nil, testMachines())
	require.NoError(t, err)
	assert.Equal(t, "addr=10.0.0.1", out)
}

func TestSubstituteUnknownParam(t *testing.T) {
	_, err := Substitute("{{ params.missing }}", map[string]interface{}{}, nil)
	assert.Error(t, err)
}

func TestSubstituteUnknownMachine(t *testing.T) {
	_, err := Substitute("{{ machine.ghost.addr }}", nil, testMachines())
	assert.Error(t, err)
}

func TestSubstituteUnknownField(t *testing.T) {
	_, err := Substitute("{{ machine.web1.nope }}", nil, testMachines())
	assert.Error(t, err)
}

func TestSubstituteUnclosedBrace(t *testing.T) {
	_, err := Substitute("{{ params.port", map[string]interface{}{"port": 1}, nil)
	assert.Error(t, err)
}

func TestSubstituteResumesPastReplacement(t *testing.T) {
	// The replacement value itself contains "{{" — it must not be
	// re-interpreted as a new template span.
	params := map[string]interface{}{"literal": "{{ not a template }}"}
	out, err := Substitute("x={{ params.literal }}y", params, nil)
	require.NoError(t, err)
	assert.Equal(t, "x={{ not a template }}y", out)
}

func TestSubstituteNoTemplates(t *testing.T) {
	out, err := Substitute("plain string", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "plain string", out)
}
