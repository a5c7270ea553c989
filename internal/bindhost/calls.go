// Package bindhost finds server-start calls in python source and rewrites their bind host.
//
// Nothing here parses python. A call is located by name, its argument list is delimited by a
// balanced scan that skips string literals and comments, and only the exact span of the host
// argument (or the point right after the last argument) is ever touched. Calls that cannot be
// delimited are left alone.
package bindhost

import (
	"regexp"
	"sort"
	"strings"

	"github.com/farcloser/replmend/internal/types"
)

//nolint:gochecknoglobals // compiled once
var (
	callPattern = regexp.MustCompile(`\b(app|application|uvicorn|socketio)\.run\(`)
	hostKwarg   = regexp.MustCompile(`^host\s*=\s*`)
	portKwarg   = regexp.MustCompile(`^port\s*=\s*`)
	portLiteral = regexp.MustCompile(`^\d+$`)
)

// hostPosition is the index of the positional host parameter per receiver.
//
//nolint:gochecknoglobals // lookup table, effectively const
var hostPosition = map[string]int{
	"app":         0,
	"application": 0,
	"uvicorn":     1,
	"socketio":    1,
}

// Call is a delimited server-start call.
type Call struct {
	types.BindingCall

	// argsStart is the index right after the opening paren, argsEnd the index of the closing one.
	argsStart int
	argsEnd   int
	// lastArgEnd is the index right after the last code character of the final argument.
	lastArgEnd int
	// trailingComma is set when the argument list ends with a comma.
	trailingComma bool
	// hostStart and hostEnd delimit the literal host value, quotes excluded.
	hostStart int
	hostEnd   int
}

type argument struct {
	start int
	end   int
}

// span is a half-open byte range of text that is not code.
type span struct {
	start int
	end   int
}

// Calls returns every server-start call in text that could be delimited, in source order.
func Calls(text string) []Call {
	var calls []Call

	skipped := nonCode(text)

	for _, loc := range callPattern.FindAllStringSubmatchIndex(text, -1) {
		if within(skipped, loc[0]) {
			continue
		}

		receiver := text[loc[2]:loc[3]]

		call, ok := delimit(text, loc[1])
		if !ok {
			continue
		}

		call.Callee = receiver + ".run"
		call.Offset = loc[0]
		inspect(text, receiver, &call)
		calls = append(calls, call)
	}

	return calls
}

// nonCode returns the comment and string literal spans of text, in order. A quote that does
// not open a terminated literal is treated as code.
func nonCode(text string) []span {
	var spans []span

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '#':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				end = len(text) - i
			}

			spans = append(spans, span{start: i, end: i + end})
			i += end
		case '\'', '"':
			end, ok := skipString(text, i)
			if !ok {
				continue
			}

			spans = append(spans, span{start: i, end: end})
			i = end - 1
		}
	}

	return spans
}

func within(spans []span, pos int) bool {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].end > pos })

	return i < len(spans) && spans[i].start <= pos
}

// delimit scans the argument list starting right after the opening paren.
func delimit(text string, start int) (Call, bool) {
	call := Call{argsStart: start, lastArgEnd: start}
	depth := 1

	for i := start; i < len(text); i++ {
		switch c := text[i]; c {
		case '#':
			nl := strings.IndexByte(text[i:], '\n')
			if nl < 0 {
				return call, false
			}

			i += nl
		case '\'', '"':
			end, ok := skipString(text, i)
			if !ok {
				return call, false
			}

			i = end - 1
			call.lastArgEnd = end
			call.trailingComma = false
		case '(', '[', '{':
			depth++
			call.lastArgEnd = i + 1
			call.trailingComma = false
		case ')', ']', '}':
			depth--
			if depth == 0 {
				call.argsEnd = i

				return call, true
			}

			call.lastArgEnd = i + 1
			call.trailingComma = false
		case ' ', '\t', '\n', '\r', '\\':
		case ',':
			call.lastArgEnd = i + 1
			call.trailingComma = depth == 1
		default:
			call.lastArgEnd = i + 1
			call.trailingComma = false
		}
	}

	return call, false
}

// skipString returns the index right after the string literal opening at i.
func skipString(text string, i int) (int, bool) {
	quote := text[i]

	if strings.HasPrefix(text[i:], strings.Repeat(string(quote), 3)) {
		end := strings.Index(text[i+3:], strings.Repeat(string(quote), 3))
		if end < 0 {
			return 0, false
		}

		return i + 3 + end + 3, true
	}

	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case quote:
			return j + 1, true
		case '\n':
			return 0, false
		}
	}

	return 0, false
}

// splitArguments returns the top level arguments of a delimited call. Each argument spans
// from its first to its last code character; surrounding whitespace and comments are excluded.
func splitArguments(text string, call *Call) []argument {
	var args []argument

	cur := argument{start: -1}
	depth := 0

	mark := func(from, to int) {
		if cur.start < 0 {
			cur.start = from
		}

		cur.end = to
	}

	for i := call.argsStart; i < call.argsEnd; i++ {
		switch c := text[i]; c {
		case '#':
			nl := strings.IndexByte(text[i:call.argsEnd], '\n')
			if nl < 0 {
				i = call.argsEnd

				continue
			}

			i += nl
		case '\'', '"':
			end, _ := skipString(text, i)
			mark(i, end)
			i = end - 1
		case ' ', '\t', '\r', '\n', '\\':
		case ',':
			if depth == 0 {
				if cur.start >= 0 {
					args = append(args, cur)
				}

				cur = argument{start: -1}

				continue
			}

			mark(i, i+1)
		case '(', '[', '{':
			depth++
			mark(i, i+1)
		case ')', ']', '}':
			depth--
			mark(i, i+1)
		default:
			mark(i, i+1)
		}
	}

	if cur.start >= 0 {
		args = append(args, cur)
	}

	return args
}

// literal reports whether text[start:end] is a single plain string literal and returns the
// span of its content.
func literal(text string, start, end int) (int, int, bool) {
	if end-start < 2 {
		return 0, 0, false
	}

	quote := text[start]
	if (quote != '"' && quote != '\'') || text[end-1] != quote {
		return 0, 0, false
	}

	inner := text[start+1 : end-1]
	if strings.ContainsAny(inner, "\"'\\\n") {
		return 0, 0, false
	}

	return start + 1, end - 1, true
}

func inspect(text, receiver string, call *Call) {
	args := splitArguments(text, call)
	positional := 0
	hostSeen := false
	portSeen := false

	for _, arg := range args {
		seg := text[arg.start:arg.end]

		if loc := portKwarg.FindStringIndex(seg); loc != nil {
			portSeen = true

			if value := seg[loc[1]:]; portLiteral.MatchString(value) {
				call.Port = value
			}

			continue
		}

		if loc := hostKwarg.FindStringIndex(seg); loc != nil {
			hostSeen = true
			setHost(text, call, arg.start+loc[1], arg.end)

			continue
		}

		if isKeyword(seg) {
			continue
		}

		switch {
		case positional == hostPosition[receiver]:
			hostSeen = true
			setHost(text, call, arg.start, arg.end)
		case positional == hostPosition[receiver]+1:
			portSeen = true

			if value := text[arg.start:arg.end]; portLiteral.MatchString(value) {
				call.Port = value
			}
		}

		positional++
	}

	switch {
	case hostSeen:
	case portSeen:
		call.State = types.BindMissingHost
	default:
		call.State = types.BindDefaultAddress
	}
}

func setHost(text string, call *Call, start, end int) {
	innerStart, innerEnd, ok := literal(text, start, end)
	if !ok {
		call.State = types.BindUnknownHost

		return
	}

	call.hostStart, call.hostEnd = innerStart, innerEnd
	call.Host = text[innerStart:innerEnd]

	if call.Host == types.UniversalHost {
		call.State = types.BindOK
	} else {
		call.State = types.BindWrongHost
	}
}

// isKeyword reports whether an argument is a keyword argument (name=value, not name==value).
func isKeyword(seg string) bool {
	for i := 0; i < len(seg); i++ {
		c := seg[i]

		switch {
		case c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9':
			continue
		case c == ' ' || c == '\t':
			rest := strings.TrimLeft(seg[i:], " \t")

			return i > 0 && strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "==")
		case c == '=':
			return i > 0 && !strings.HasPrefix(seg[i:], "==")
		default:
			return false
		}
	}

	return false
}
