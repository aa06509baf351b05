package interact

import (
	"testing"

	"github.com/xonecas/livemark/internal/constants"
	"github.com/xonecas/livemark/internal/document"
)

func TestToggleTaskFlipsCheckbox(t *testing.T) {
	doc := document.New("- [ ] write tests")

	splice, ok := ToggleTask(doc, 2, 8, false, true)
	if !ok {
		t.Fatal("click on a task line inside the budget should be handled")
	}
	if splice.From != 3 || splice.To != 4 || splice.Insert != "x" {
		t.Fatalf("splice = %+v", splice)
	}

	// Round trip: applying and toggling again restores the original.
	checked, err := doc.Apply(splice)
	if err != nil {
		t.Fatal(err)
	}
	if checked.Text() != "- [x] write tests" {
		t.Fatalf("after toggle: %q", checked.Text())
	}
	back, ok := ToggleTask(checked, 2, 8, false, true)
	if !ok || back.Insert != " " {
		t.Fatalf("second toggle = %+v, %v", back, ok)
	}
	restored, err := checked.Apply(back)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Text() != doc.Text() {
		t.Errorf("round trip: %q != %q", restored.Text(), doc.Text())
	}
}

func TestToggleTaskPixelBudget(t *testing.T) {
	doc := document.New("- [x] item")
	tests := []struct {
		px   int
		want bool
	}{
		{0, true},
		{constants.CheckboxHitBudget, true},
		{constants.CheckboxHitBudget + 1, false},
		{-1, false},
	}
	for _, tt := range tests {
		if _, ok := ToggleTask(doc, 0, tt.px, false, true); ok != tt.want {
			t.Errorf("px=%d: handled=%v, want %v", tt.px, ok, tt.want)
		}
	}
}

func TestToggleTaskGating(t *testing.T) {
	doc := document.New("- [ ] item")

	if _, ok := ToggleTask(doc, 0, 0, true, true); ok {
		t.Error("read-only host must not toggle")
	}
	if _, ok := ToggleTask(doc, 0, 0, false, false); ok {
		t.Error("secondary button must not toggle")
	}
	if _, ok := ToggleTask(document.New(""), 0, 0, false, true); ok {
		t.Error("empty document must not toggle")
	}
}

func TestToggleTaskNonTaskLines(t *testing.T) {
	for _, text := range []string{
		"- plain list item",
		"paragraph",
		"# heading",
		"[ ] not a list",
	} {
		doc := document.New(text)
		if _, ok := ToggleTask(doc, 0, 0, false, true); ok {
			t.Errorf("%q: should fall through to caret placement", text)
		}
	}
}

func TestToggleTaskSecondLine(t *testing.T) {
	doc := document.New("intro\n- [ ] later")
	line := doc.Line(1)

	splice, ok := ToggleTask(doc, line.Start+1, 4, false, true)
	if !ok {
		t.Fatal("not handled")
	}
	// The state char of line 1 sits 3 bytes into that line.
	if splice.From != line.Start+3 || splice.To != line.Start+4 {
		t.Errorf("splice = %+v", splice)
	}
}
