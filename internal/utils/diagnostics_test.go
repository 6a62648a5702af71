package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	d := NewDiagnosticSystem(level)
	var out, errOut bytes.Buffer
	d.SetOutput(&out, &errOut)
	d.SetShowTime(false)
	return d, &out, &errOut
}

func TestDiagnosticSystem_Levels(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	d, out, errOut := newTestDiagnostics(DiagnosticWarn)
	d.Error("broken %d", 1)
	d.Warn("careful")
	d.Info("hidden")
	d.Debug("hidden")

	assert.Equal(t, "[ERROR] broken 1\n", errOut.String())
	assert.Equal(t, "[WARN] careful\n", out.String())

	d, out, _ = newTestDiagnostics(DiagnosticSilent)
	d.Error("nothing")
	d.GenerationComplete()
	assert.Empty(t, out.String())
}

func TestDiagnosticSystem_Structure(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	d, out, _ := newTestDiagnostics(DiagnosticInfo)
	d.Header("Generating wrappers")
	d.PhaseHeader("Discovery")
	d.PhaseItem("Found 2 annotated types")
	d.PhaseProgress("Writing greet/autogen_greeter_wrapper.go")
	d.PhaseProgress("Loading packages")
	d.Indent()
	d.List("greet")
	d.Unindent()
	d.Unindent()

	assert.Equal(t, "delegate: Generating wrappers\n"+
		"Discovery:\n"+
		"✓ Found 2 annotated types\n"+
		"✏ Writing greet/autogen_greeter_wrapper.go\n"+
		"- Loading packages\n"+
		"  - greet\n", out.String())
}

func TestParseDiagnosticLevel(t *testing.T) {
	level, err := ParseDiagnosticLevel("Verbose")
	require.NoError(t, err)
	assert.Equal(t, DiagnosticVerbose, level)

	_, err = ParseDiagnosticLevel("loud")
	assert.EqualError(t, err, `unknown diagnostic level "loud"`)
}
