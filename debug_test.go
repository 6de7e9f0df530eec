package openwire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomruk/openwire-go/command"
)

func TestPrintDebugger(t *testing.T) {
	var buf bytes.Buffer
	d := newPrintDebugger(&buf)

	d.Log("main", 1, "two")
	d.WithContext("ctx").Log("main")
	n := 0
	d.WithDynamicContext("ctx", func() string {
		n++
		return "dyn"
	}).Log("", "value")
	d.WithDynamicContext("ctx", func() string { return "" }).Log("main")

	assert.Equal(t, "main: 1: two\nctx: main\nctx: dyn: value\nctx: main\n", buf.String())
	assert.Equal(t, 1, n)
}

func TestNoopDebugger(t *testing.T) {
	d := NewNoopDebugger()
	assert.Equal(t, d, d.WithContext("ctx"))
	assert.Equal(t, d, d.WithDynamicContext("ctx", func() string {
		t.Fatal("dynamic context of a noop debugger was called")
		return ""
	}))
	d.Log("main", 1)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "<null>", describe{}.String())

	s := describe{&command.Response{CorrelationID: 5}}.String()
	assert.True(t, strings.HasPrefix(s, "*command.Response {"), s)
	assert.Contains(t, s, `"CorrelationID":5`)
}

func TestFormatDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	f := mustFormat(t, &FormatConfig{Debugger: newPrintDebugger(&buf)})
	peer := mustFormat(t, nil)

	info, err := peer.PreferredInfo()
	require.NoError(t, err)
	require.NoError(t, f.Negotiate(info))

	_, err = f.Encode(&command.KeepAliveInfo{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	prefix := "openwire format " + f.ID() + ": v6: "
	assert.True(t, strings.HasPrefix(lines[0], prefix+"negotiated: version 6"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], prefix+"encoded: *command.KeepAliveInfo"), lines[1])
}
