package tui

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/memora/internal/catalog"
	"github.com/abhisek/memora/internal/entitlement"
	"github.com/abhisek/memora/internal/interview"
	"github.com/abhisek/memora/internal/store"
)

func testModel(t *testing.T) Model {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	svc := interview.NewService(db, cat, entitlement.DefaultLimits())
	return New(svc, nil, 1)
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// runCmd executes a command synchronously and feeds the resulting
// message back into the model.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

func TestInitFetchesFirstQuestion(t *testing.T) {
	m := testModel(t)
	m = runCmd(t, m, m.Init())

	if m.question == nil {
		t.Fatal("expected a question after init")
	}
	if m.question.Pack != "childhood" {
		t.Errorf("expected a warmup question, got pack %q", m.question.Pack)
	}
	if !strings.Contains(m.render(), m.question.Text) {
		t.Error("view should render the question text")
	}
}

func TestSkipThenNext(t *testing.T) {
	m := testModel(t)
	m = runCmd(t, m, m.Init())
	first := m.question.QuestionID

	next, cmd := m.Update(keyPress('s'))
	m = runCmd(t, next.(Model), cmd)
	if m.question != nil {
		t.Fatal("question should be cleared after skip")
	}
	if m.notice == "" {
		t.Error("expected a skip notice")
	}

	next, cmd = m.Update(keyPress('n'))
	m = runCmd(t, next.(Model), cmd)
	if m.question == nil {
		t.Fatal("expected a fresh question")
	}
	if m.question.QuestionID == first {
		t.Error("skipped question should not be reissued")
	}
}

func TestShuffleSwapsQuestion(t *testing.T) {
	m := testModel(t)
	m = runCmd(t, m, m.Init())
	first := m.question.QuestionID

	next, cmd := m.Update(keyPress('r'))
	m = runCmd(t, next.(Model), cmd)
	if m.question == nil {
		t.Fatal("expected a replacement question")
	}
	if m.question.QuestionID == first {
		t.Errorf("shuffle returned the same question %s", first)
	}
}

func TestTypingModeSubmitsAnswer(t *testing.T) {
	m := testModel(t)
	m = runCmd(t, m, m.Init())

	next, cmd := m.Update(keyPress('a'))
	m = next.(Model)
	if m.mode != modeTyping {
		t.Fatalf("expected typing mode, got %d", m.mode)
	}
	if cmd == nil {
		t.Error("entering typing mode should focus the input")
	}

	m.mode = modeBusy
	m = runCmd(t, m, m.submitAnswer("Мы жили в старом доме у реки."))

	if m.question != nil {
		t.Error("question should be cleared after answering")
	}
	if m.notice == "" {
		t.Error("expected a recorded notice")
	}
}

func TestTypingModeEscapeCancels(t *testing.T) {
	m := testModel(t)
	m = runCmd(t, m, m.Init())

	next, _ := m.Update(keyPress('a'))
	m = next.(Model)
	next, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	m = next.(Model)

	if m.mode != modeQuestion {
		t.Errorf("expected question mode after escape, got %d", m.mode)
	}
}

func TestQuitKey(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("q should quit")
	}
}

func TestResumesPendingQuestionAfterRestart(t *testing.T) {
	m := testModel(t)

	// A question issued in a previous run is still unresolved.
	issued, err := m.svc.GetNextQuestion(context.Background(), 1, "")
	if err != nil {
		t.Fatalf("GetNextQuestion error: %v", err)
	}

	m = runCmd(t, m, m.Init())
	if m.err != nil {
		t.Fatalf("init error: %v", m.err)
	}
	if m.question == nil || m.question.QuestionID != issued.QuestionID {
		t.Fatalf("question = %+v, want pending %s", m.question, issued.QuestionID)
	}

	// The resumed question must be resolvable.
	next, cmd := m.Update(keyPress('s'))
	m = runCmd(t, next.(Model), cmd)
	if m.err != nil {
		t.Fatalf("skip error: %v", m.err)
	}
	if m.question != nil {
		t.Fatal("question should be cleared after skipping the resumed entry")
	}
}
