package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/brickc/log"
)

const program = `int speed;

sub stop()
{
  Off(OUT_A);
}

task spin()
{
  OnFwd(OUT_A);
}

task main()
{
  start spin;
}
`

func staticLoader(res Result, err error) Loader {
	return func(context.Context) (Result, error) { return res, err }
}

func testModel(t *testing.T) model {
	t.Helper()

	res := Result{
		Text:     program,
		Warnings: []string{"#4 sub: ignored: name required"},
		Headers:  headers(program),
	}

	m := newModel(t.Context(), "test", staticLoader(res, nil), log.Logger{})
	m.width, m.height = 80, 10
	m.resize()

	return m.apply(res)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}

	return m
}

func TestHeaders(t *testing.T) {
	got := headers(program)
	want := []Header{{"stop", 2}, {"spin", 7}, {"main", 12}}

	if len(got) != len(want) {
		t.Fatalf("headers() = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("headers()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if got := headers(""); len(got) != 0 {
		t.Errorf("headers(\"\") = %v, want none", got)
	}
}

func TestSearchJumps(t *testing.T) {
	m := testModel(t)

	m = send(m, key("/"))
	if !m.searching {
		t.Fatal("expected search mode after /")
	}

	m = send(m, key("s"), key("p"))
	if len(m.matches) == 0 || m.matches[0].Str != "spin" {
		t.Fatalf("matches = %v, want spin first", m.matches)
	}

	m = send(m, key("enter"))
	if m.searching {
		t.Error("search mode should end on enter")
	}

	if m.view.YOffset != 7 {
		t.Errorf("YOffset = %d, want 7", m.view.YOffset)
	}
}

func TestSearchEscape(t *testing.T) {
	m := send(testModel(t), key("/"), key("m"), key("esc"))

	if m.searching {
		t.Error("search mode should end on esc")
	}

	if m.view.YOffset != 0 {
		t.Errorf("YOffset = %d, want 0", m.view.YOffset)
	}
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		t.Run(k, func(t *testing.T) {
			next, cmd := testModel(t).Update(key(k))
			if cmd == nil {
				t.Fatal("expected quit command")
			}

			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Errorf("cmd() is not tea.QuitMsg")
			}

			if v := next.(model).View(); v != "" {
				t.Errorf("View() after quit = %q, want empty", v)
			}
		})
	}
}

func TestReload(t *testing.T) {
	m := testModel(t)
	m.load = staticLoader(Result{Text: "task main()\n{\n}\n"}, nil)

	_, cmd := m.Update(key("r"))
	if cmd == nil {
		t.Fatal("expected reload command")
	}

	m = send(m, cmd())

	if len(m.result.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", m.result.Warnings)
	}

	if !strings.Contains(m.View(), "no warnings") {
		t.Errorf("View() missing status:\n%s", m.View())
	}
}

func TestReloadFailureKeepsProgram(t *testing.T) {
	m := testModel(t)
	m.load = staticLoader(Result{}, errors.New("broken document"))

	_, cmd := m.Update(key("r"))
	m = send(m, cmd())

	if m.result.Text != program {
		t.Error("program replaced after failed reload")
	}

	if !strings.Contains(m.View(), "broken document") {
		t.Errorf("View() missing error:\n%s", m.View())
	}
}

func TestViewShowsWarnings(t *testing.T) {
	v := testModel(t).View()

	for _, want := range []string{"test", "name required", "Off(OUT_A);"} {
		if !strings.Contains(v, want) {
			t.Errorf("View() missing %q:\n%s", want, v)
		}
	}
}

func TestStatusLineTruncates(t *testing.T) {
	m := testModel(t)
	m.result.Warnings = []string{"a", "b", "c", "d", "e", "f", "g"}

	s := m.statusLine()
	if n := strings.Count(s, "\n") + 1; n != maxWarningLines {
		t.Errorf("status lines = %d, want %d", n, maxWarningLines)
	}

	if !strings.Contains(s, "3 more") {
		t.Errorf("statusLine() = %q, want overflow count", s)
	}
}

func TestFileLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.yaml")

	doc := `blocks:
  - kind: task_main
    statements:
      DO:
        - kind: motor_on
          fields: {PORT: A}
  - kind: task_main
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := FileLoader(path, true, log.Logger{})(t.Context())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(res.Headers) != 1 || res.Headers[0].Name != "main" {
		t.Errorf("headers = %v, want main only", res.Headers)
	}

	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "only one main task") {
		t.Errorf("warnings = %v", res.Warnings)
	}

	if _, err := FileLoader(filepath.Join(t.TempDir(), "missing"), true, log.Logger{})(
		t.Context()); err == nil {
		t.Error("expected error for missing file")
	}
}
