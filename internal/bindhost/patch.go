package bindhost

import (
	"strings"

	"github.com/farcloser/replmend/internal/types"
)

// Edit describes one change made by Patch.
type Edit struct {
	Callee string
	// From is the previous literal host, empty when the argument was added.
	From string
}

// Patch makes every delimited server-start call in text bind to the universal host. A wrong
// literal host has only its value replaced; a call without any host argument gets one
// appended after its last argument. Calls with a non-literal host are left alone. Running
// Patch on its own output returns it unchanged with no edits.
func Patch(text string) (string, []Edit) {
	calls := Calls(text)
	if len(calls) == 0 {
		return text, nil
	}

	var (
		out   strings.Builder
		edits []Edit
	)

	last := 0

	for _, call := range calls {
		if call.Offset < last {
			continue
		}

		switch call.State {
		case types.BindWrongHost:
			out.WriteString(text[last:call.hostStart])
			out.WriteString(types.UniversalHost)
			last = call.hostEnd

			edits = append(edits, Edit{Callee: call.Callee, From: call.Host})
		case types.BindMissingHost, types.BindDefaultAddress:
			out.WriteString(text[last:call.lastArgEnd])
			out.WriteString(hostArgument(call))
			last = call.lastArgEnd

			edits = append(edits, Edit{Callee: call.Callee})
		case types.BindOK, types.BindUnknownHost:
		}
	}

	out.WriteString(text[last:])

	return out.String(), edits
}

func hostArgument(call Call) string {
	arg := `host="` + types.UniversalHost + `"`

	switch {
	case call.lastArgEnd == call.argsStart:
		return arg
	case call.trailingComma:
		return " " + arg
	default:
		return ", " + arg
	}
}
