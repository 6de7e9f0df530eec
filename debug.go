package openwire

import (
	"fmt"
	"io"
	"os"

	"github.com/tomruk/openwire-go/command"
	"github.com/tomruk/openwire-go/internal/json"
	"github.com/tomruk/openwire-go/internal/sync"
	"github.com/xiegeo/coloredgoroutine"
)

type (
	Debugger interface {
		Log(main string, v ...any)
		WithContext(context string) Debugger
		WithDynamicContext(context string, dynamicContext func() string) Debugger
	}

	noopDebugger struct{}

	printDebugger struct {
		w              io.Writer
		context        string
		dynamicContext func() string
	}
)

func NewNoopDebugger() Debugger {
	return noopDebugger{}
}

func (d noopDebugger) Log(main string, _v ...any) {}

func (d noopDebugger) WithContext(context string) Debugger { return d }

func (d noopDebugger) WithDynamicContext(context string, _ func() string) Debugger { return d }

// NewPrintDebugger returns a Debugger that writes to stdout, colored by
// goroutine.
func NewPrintDebugger() Debugger {
	return newPrintDebugger(coloredgoroutine.Colors(os.Stdout))
}

func newPrintDebugger(w io.Writer) *printDebugger {
	return &printDebugger{w: w}
}

var printMu sync.Mutex

// Log writes the context, the dynamic context, main and each value on one
// line, separated by colons.
func (d *printDebugger) Log(main string, _v ...any) {
	printMu.Lock()
	defer printMu.Unlock()

	parts := make([]any, 0, 3+len(_v))
	if d.context != "" {
		parts = append(parts, d.context)
	}
	if d.dynamicContext != nil {
		if dc := d.dynamicContext(); dc != "" {
			parts = append(parts, dc)
		}
	}
	if main != "" {
		parts = append(parts, main)
	}
	parts = append(parts, _v...)

	for i, p := range parts {
		if i != 0 {
			fmt.Fprint(d.w, ": ")
		}
		fmt.Fprint(d.w, p)
	}
	fmt.Fprint(d.w, "\n")
	if f, ok := d.w.(*os.File); ok {
		f.Sync()
	}
}

func (d printDebugger) WithContext(context string) Debugger {
	d.context = context
	return &d
}

func (d printDebugger) WithDynamicContext(context string, dynamicContext func() string) Debugger {
	d.context = context
	d.dynamicContext = dynamicContext
	return &d
}

// describe renders a command as its Go type and its JSON form. The JSON is
// only produced if a debugger actually prints the value.
type describe struct {
	v command.DataStructure
}

func (d describe) String() string {
	if d.v == nil {
		return "<null>"
	}
	b, err := json.Marshal(d.v)
	if err != nil {
		return fmt.Sprintf("%T <%v>", d.v, err)
	}
	return fmt.Sprintf("%T %s", d.v, b)
}
