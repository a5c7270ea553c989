package tests_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/containerd/nerdctl/mod/tigron/test"
	"github.com/containerd/nerdctl/mod/tigron/tig"

	"github.com/farcloser/replmend/tests/testutils"
)

const projectLabel = "project"

const healthyFlask = `from flask import Flask

app = Flask(__name__)


@app.route("/")
def index():
    return "ok"


if __name__ == "__main__":
    app.run(host="0.0.0.0", port=5000)
`

const loopbackFlask = `from flask import Flask

app = Flask(__name__)

if __name__ == "__main__":
    app.run(host="127.0.0.1", port=5000, debug=True)
`

// withProject returns a Setup creating the given project and recording its path.
func withProject(files map[string]string) func(test.Data, test.Helpers) {
	return func(data test.Data, _ test.Helpers) {
		data.Labels().Set(projectLabel, testutils.Project(files))
	}
}

// removeProject is the matching Cleanup.
func removeProject(data test.Data, _ test.Helpers) {
	if dir := data.Labels().Get(projectLabel); dir != "" {
		_ = os.RemoveAll(dir)
	}
}

// onProject returns a Command running replmend with args followed by the project directory.
func onProject(args ...string) func(test.Data, test.Helpers) test.TestableCommand {
	return func(data test.Data, helpers test.Helpers) test.TestableCommand {
		return helpers.Command(append(args, data.Labels().Get(projectLabel))...)
	}
}

// expectContains returns a comparator verifying the output contains a substring.
func expectContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if !strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("expected substring %q not found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectNotContains returns a comparator verifying the output does not contain a substring.
func expectNotContains(substr string) test.Comparator {
	return func(stdout string, testing tig.T) {
		testing.Helper()

		if strings.Contains(stdout, substr) {
			testing.Log(fmt.Sprintf("unexpected substring %q found in output:\n%s", substr, stdout))
			testing.Fail()
		}
	}
}

// expectFile returns a comparator verifying that a project file contains a substring.
func expectFile(data test.Data, rel, substr string) test.Comparator {
	return func(_ string, testing tig.T) {
		testing.Helper()

		path := filepath.Join(data.Labels().Get(projectLabel), filepath.FromSlash(rel))

		content, err := os.ReadFile(path)
		if err != nil {
			testing.Log(fmt.Sprintf("cannot read %s: %v", rel, err))
			testing.Fail()

			return
		}

		if !strings.Contains(string(content), substr) {
			testing.Log(fmt.Sprintf("expected %q in %s, got:\n%s", substr, rel, content))
			testing.Fail()
		}
	}
}
