package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestWizardStepTransitions(t *testing.T) {
	t.Run("purpose to base to confirm", func(t *testing.T) {
		w := newWizardModel()
		if w.step != stepPurpose {
			t.Fatalf("initial step = %v, want stepPurpose", w.step)
		}

		w.purposeInput.SetValue("add caching")
		done, opts, _ := w.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if done || opts != nil {
			t.Fatal("should not be done after purpose step")
		}
		if w.step != stepBase {
			t.Fatalf("step = %v, want stepBase", w.step)
		}

		w.baseInput.SetValue("develop")
		w.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if w.step != stepConfirm {
			t.Fatalf("step = %v, want stepConfirm", w.step)
		}

		done, opts, _ = w.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if !done || opts == nil {
			t.Fatal("confirm should complete the wizard")
		}
		if opts.Purpose != "add caching" || opts.BaseBranch != "develop" || !opts.SetupVenv {
			t.Errorf("opts = %+v", opts)
		}
	})

	t.Run("esc at first step cancels", func(t *testing.T) {
		w := newWizardModel()
		done, opts, _ := w.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if !done || opts != nil {
			t.Error("esc on first step should cancel")
		}
	})

	t.Run("ctrl+c cancels", func(t *testing.T) {
		w := newWizardModel()
		w.step = stepConfirm
		done, opts, _ := w.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if !done || opts != nil {
			t.Error("ctrl+c should cancel")
		}
	})

	t.Run("esc goes back", func(t *testing.T) {
		w := newWizardModel()
		w.step = stepConfirm
		w.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if w.step != stepBase {
			t.Errorf("step = %v, want stepBase", w.step)
		}
		w.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if w.step != stepPurpose {
			t.Errorf("step = %v, want stepPurpose", w.step)
		}
	})

	t.Run("n restarts from confirm", func(t *testing.T) {
		w := newWizardModel()
		w.purposeInput.SetValue("x")
		w.step = stepConfirm
		w.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		if w.step != stepPurpose || w.purposeInput.Value() != "" {
			t.Errorf("wizard not reset: step=%v purpose=%q", w.step, w.purposeInput.Value())
		}
	})
}

func TestWizardOptions(t *testing.T) {
	t.Run("ctrl+a opens options", func(t *testing.T) {
		w := newWizardModel()
		w.step = stepBase
		w.Update(tea.KeyMsg{Type: tea.KeyCtrlA})
		if w.step != stepOptions {
			t.Fatalf("step = %v, want stepOptions", w.step)
		}
	})

	t.Run("space toggles venv", func(t *testing.T) {
		w := newWizardModel()
		w.step = stepOptions
		w.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
		if w.setupVenv {
			t.Error("venv should be toggled off")
		}
		w.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		if !w.setupVenv {
			t.Error("venv should be toggled back on")
		}
	})

	t.Run("invalid python version blocks", func(t *testing.T) {
		w := newWizardModel()
		w.step = stepOptions
		w.Update(tea.KeyMsg{Type: tea.KeyTab})
		if w.optCursor != optPython {
			t.Fatalf("cursor = %v, want optPython", w.optCursor)
		}
		w.pythonInput.SetValue("2.7")
		w.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if w.step != stepOptions || w.pythonErr == "" {
			t.Fatalf("invalid version should keep the options step, step=%v", w.step)
		}

		w.pythonInput.SetValue("3.12")
		w.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if w.step != stepConfirm {
			t.Fatalf("step = %v, want stepConfirm", w.step)
		}
		done, opts, _ := w.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
		if !done || opts.PythonVersion != "3.12" {
			t.Errorf("opts = %+v", opts)
		}
	})

	t.Run("cursor wraps", func(t *testing.T) {
		w := newWizardModel()
		w.step = stepOptions
		w.Update(tea.KeyMsg{Type: tea.KeyUp})
		if w.optCursor != optFieldCount-1 {
			t.Errorf("cursor = %v, want %v", w.optCursor, optFieldCount-1)
		}
	})
}

func TestWizardView(t *testing.T) {
	w := newWizardModel()
	if !strings.Contains(w.View(), "Purpose:") {
		t.Error("first step should ask for purpose")
	}

	w.step = stepOptions
	view := w.View()
	if !strings.Contains(view, "Create virtual environment") || !strings.Contains(view, "(auto)") {
		t.Errorf("options view:\n%s", view)
	}

	w.step = stepConfirm
	view = w.View()
	if !strings.Contains(view, "(none)") || !strings.Contains(view, "HEAD") {
		t.Errorf("confirm view:\n%s", view)
	}
}

func TestWizardProgressBar(t *testing.T) {
	w := newWizardModel()
	for _, step := range []wizardStep{stepPurpose, stepBase, stepOptions, stepConfirm} {
		w.step = step
		bar := w.progressBar()
		if !strings.Contains(bar, "1. Purpose") || !strings.Contains(bar, "3. Confirm") {
			t.Errorf("progress bar for step %v = %q", step, bar)
		}
	}
}
