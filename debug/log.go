package debug

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/tony-format/go-bind/ir"
)

// Node formats an ir node as its JSON document.
type Node struct{ *ir.Node }

func (y Node) String() string {
	if y.Node == nil {
		return "<missing>"
	}
	d, err := y.Node.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("[raw *ir.Node] %v", y.Node)
	}
	return string(d)
}

var out io.Writer = os.Stderr

// Logf writes a trace line to stderr, rendering *ir.Node arguments as
// JSON.
func Logf(msg string, args ...any) {
	for i, a := range args {
		if n, ok := a.(*ir.Node); ok {
			args[i] = Node{n}
		}
	}
	fmt.Fprintf(out, msg, args...)
}
