package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const scenarios = "# Scenarios\n\n" +
	"## Test: empty\n\n" +
	"```yaml\nblocks: []\n```\n\n" +
	"```nqc\ntask main()\n{\n}\n```\n\n" +
	"## Test: wrong\n\n" +
	"```yaml\nblocks: []\n```\n\n" +
	"```nqc\ntask other()\n{\n}\n```\n"

func TestVerify(t *testing.T) {
	path := writeFile(t, "cases.md", scenarios)

	t.Run("report", func(t *testing.T) {
		var buf bytes.Buffer

		err := (&Verify{Files: []string{path}, out: &buf}).Run(testContext(t))
		if !errors.Is(err, ErrVerify) {
			t.Fatalf("Verify.Run() error = %v, want ErrVerify", err)
		}

		out := buf.String()
		for _, want := range []string{"PASS", "empty", "FAIL", "wrong", "nqc mismatch", "task other()"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("quiet", func(t *testing.T) {
		var buf bytes.Buffer

		_ = (&Verify{Quiet: true, Files: []string{path}, out: &buf}).Run(testContext(t))

		if strings.Contains(buf.String(), "PASS") {
			t.Errorf("quiet output lists passing cases:\n%s", buf.String())
		}
	})
}

func TestVerifyAllPass(t *testing.T) {
	path := writeFile(t, "cases.md", strings.Split(scenarios, "## Test: wrong")[0])

	var buf bytes.Buffer

	if err := (&Verify{Files: []string{path}, out: &buf}).Run(testContext(t)); err != nil {
		t.Fatalf("Verify.Run() error = %v\n%s", err, buf.String())
	}
}

func TestQuoteLines(t *testing.T) {
	if got := quoteLines(""); got != "(empty)" {
		t.Errorf("quoteLines(\"\") = %q", got)
	}

	if got, want := quoteLines("a\nb\n"), "a\n          b"; got != want {
		t.Errorf("quoteLines() = %q, want %q", got, want)
	}
}
