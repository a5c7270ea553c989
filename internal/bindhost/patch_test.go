package bindhost_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farcloser/replmend/internal/bindhost"
	"github.com/farcloser/replmend/internal/types"
)

func TestPatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
		edits int
	}{
		{
			name:  "wrong host literal is replaced",
			input: `app.run(host="127.0.0.1", port=8080)`,
			want:  `app.run(host="0.0.0.0", port=8080)`,
			edits: 1,
		},
		{
			name:  "single quotes are preserved",
			input: `app.run(host='localhost')`,
			want:  `app.run(host='0.0.0.0')`,
			edits: 1,
		},
		{
			name:  "port only gets a host appended",
			input: `app.run(port=5000)`,
			want:  `app.run(port=5000, host="0.0.0.0")`,
			edits: 1,
		},
		{
			name:  "empty call",
			input: `app.run()`,
			want:  `app.run(host="0.0.0.0")`,
			edits: 1,
		},
		{
			name:  "trailing comma",
			input: "app.run(\n    debug=True,\n)\n",
			want:  "app.run(\n    debug=True, host=\"0.0.0.0\"\n)\n",
			edits: 1,
		},
		{
			name:  "comment after last argument stays a comment",
			input: "app.run(debug=True  # local only\n)",
			want:  "app.run(debug=True, host=\"0.0.0.0\"  # local only\n)",
			edits: 1,
		},
		{
			name:  "positional host",
			input: `app.run("127.0.0.1", 5000)`,
			want:  `app.run("0.0.0.0", 5000)`,
			edits: 1,
		},
		{
			name:  "uvicorn host is the second positional",
			input: `uvicorn.run(app, port=8000)`,
			want:  `uvicorn.run(app, port=8000, host="0.0.0.0")`,
			edits: 1,
		},
		{
			name:  "non literal host is left alone",
			input: `app.run(host=HOST, port=PORT)`,
			want:  `app.run(host=HOST, port=PORT)`,
		},
		{
			name:  "correct host is left alone",
			input: `app.run(host="0.0.0.0", port=5000)`,
			want:  `app.run(host="0.0.0.0", port=5000)`,
		},
		{
			name:  "unbalanced call is never touched",
			input: "app.run(host=\"127.0.0.1\"\n",
			want:  "app.run(host=\"127.0.0.1\"\n",
		},
		{
			name:  "commented out call is ignored",
			input: `# app.run(host="127.0.0.1")`,
			want:  `# app.run(host="127.0.0.1")`,
		},
		{
			name:  "call mentioned in a docstring is ignored",
			input: "\"\"\"Start locally with app.run(host='localhost', port=8000).\"\"\"\napp.run(host='0.0.0.0', port=5000)\n",
			want:  "\"\"\"Start locally with app.run(host='localhost', port=8000).\"\"\"\napp.run(host='0.0.0.0', port=5000)\n",
		},
		{
			name:  "call mentioned in a string is ignored",
			input: `print("use app.run(host='127.0.0.1') locally")`,
			want:  `print("use app.run(host='127.0.0.1') locally")`,
		},
		{
			name:  "hash inside a string does not hide the call",
			input: `print("#"); app.run(host="127.0.0.1")`,
			want:  `print("#"); app.run(host="0.0.0.0")`,
			edits: 1,
		},
		{
			name:  "parens inside strings do not end the call",
			input: `app.run(extra_files=["a(b).txt"], host="127.0.0.1")`,
			want:  `app.run(extra_files=["a(b).txt"], host="0.0.0.0")`,
			edits: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, edits := bindhost.Patch(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Len(t, edits, tt.edits)
		})
	}
}

func TestPatchOnlyTouchesTheCallSite(t *testing.T) {
	t.Parallel()

	input := `import psycopg2
from flask import Flask

conn = psycopg2.connect(host="127.0.0.1")
app = Flask(__name__)

if __name__ == "__main__":
    app.run(host="127.0.0.1", port=8080, debug=True)
`
	want := `import psycopg2
from flask import Flask

conn = psycopg2.connect(host="127.0.0.1")
app = Flask(__name__)

if __name__ == "__main__":
    app.run(host="0.0.0.0", port=8080, debug=True)
`

	got, edits := bindhost.Patch(input)
	require.Len(t, edits, 1)
	assert.Equal(t, "127.0.0.1", edits[0].From)
	assert.Equal(t, want, got)
}

func TestPatchIsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`app.run(port=5000)`,
		`app.run(host="127.0.0.1", port=8080)`,
		"app.run(\n    debug=True,\n)\n",
		`uvicorn.run("main:app", port=8000)`,
	}

	for _, input := range inputs {
		once, _ := bindhost.Patch(input)
		twice, edits := bindhost.Patch(once)

		assert.Equal(t, once, twice, input)
		assert.Empty(t, edits, input)
	}
}

func TestCalls(t *testing.T) {
	t.Parallel()

	text := `app.run(host="127.0.0.1", port=8080)
socketio.run(app, port=3000)
uvicorn.run("main:app", host="0.0.0.0", port=8000)
`

	calls := bindhost.Calls(text)
	require.Len(t, calls, 3)

	assert.Equal(t, "app.run", calls[0].Callee)
	assert.Equal(t, types.BindWrongHost, calls[0].State)
	assert.Equal(t, "127.0.0.1", calls[0].Host)
	assert.Equal(t, "8080", calls[0].Port)

	assert.Equal(t, "socketio.run", calls[1].Callee)
	assert.Equal(t, types.BindMissingHost, calls[1].State)
	assert.Equal(t, "3000", calls[1].Port)

	assert.Equal(t, types.BindOK, calls[2].State)
	assert.Equal(t, "8000", calls[2].Port)
}

func TestCallsPortWithoutHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		state types.BindState
		port  string
	}{
		{name: "literal port keyword", input: `app.run(port=5000)`, state: types.BindMissingHost, port: "5000"},
		{name: "computed port keyword", input: `app.run(port=int(PORT))`, state: types.BindMissingHost},
		{name: "positional port", input: `uvicorn.run(app, None, 8000)`, state: types.BindUnknownHost, port: "8000"},
		{name: "neither host nor port", input: `app.run(debug=True)`, state: types.BindDefaultAddress},
		{name: "empty call", input: `app.run()`, state: types.BindDefaultAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			calls := bindhost.Calls(tt.input)
			require.Len(t, calls, 1)
			assert.Equal(t, tt.state, calls[0].State)
			assert.Equal(t, tt.port, calls[0].Port)
		})
	}
}

func TestCallsSkipsDocstrings(t *testing.T) {
	t.Parallel()

	text := `"""Run with app.run(host='localhost', port=8000) while developing."""
from flask import Flask

app = Flask(__name__)

if __name__ == "__main__":
    app.run(host='0.0.0.0', port=5000)
`

	calls := bindhost.Calls(text)
	require.Len(t, calls, 1)
	assert.Equal(t, types.BindOK, calls[0].State)
	assert.Equal(t, "5000", calls[0].Port)
}
