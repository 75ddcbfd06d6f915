package cloze

import (
	"testing"

	"github.com/google/uuid"
	"github.com/quillmind/recall-api/internal/domain"
)

func newDeckID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func clozeCard(t *testing.T, text string) *domain.Card {
	t.Helper()
	content, err := domain.NewClozeContent(text)
	if err != nil {
		t.Fatalf("failed to build cloze content: %v", err)
	}
	card, err := domain.NewCard(newDeckID(t), nil, content, nil)
	if err != nil {
		t.Fatalf("failed to build card: %v", err)
	}
	return card
}

func frontBackCard(t *testing.T, front, back string) *domain.Card {
	t.Helper()
	content, err := domain.NewFrontBackContent(front, back)
	if err != nil {
		t.Fatalf("failed to build front/back content: %v", err)
	}
	card, err := domain.NewCard(newDeckID(t), nil, content, nil)
	if err != nil {
		t.Fatalf("failed to build card: %v", err)
	}
	return card
}

func TestParseMarkers(t *testing.T) {
	t.Parallel()

	markers := ParseMarkers("The {{1::heart}} pumps {{2::blood}} and {{1::beats}}.")

	if len(markers) != 3 {
		t.Fatalf("Expected 3 markers, got %d", len(markers))
	}

	expected := []Marker{
		{ID: 1, Answer: "heart"},
		{ID: 2, Answer: "blood"},
		{ID: 1, Answer: "beats"},
	}
	for i, want := range expected {
		if markers[i] != want {
			t.Errorf("marker %d: expected %+v, got %+v", i, want, markers[i])
		}
	}
}

func TestDistinctIDs(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		text     string
		expected []int
	}{
		{
			name:     "repeated id counted once",
			text:     "{{1::a}} {{1::b}} {{2::c}}",
			expected: []int{1, 2},
		},
		{
			name:     "ids sorted regardless of appearance order",
			text:     "{{3::z}} {{1::a}} {{2::m}}",
			expected: []int{1, 2, 3},
		},
		{
			name:     "no markers",
			text:     "plain text without blanks",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ids := DistinctIDs(tc.text)
			if len(ids) != len(tc.expected) {
				t.Fatalf("Expected %v, got %v", tc.expected, ids)
			}
			for i := range ids {
				if ids[i] != tc.expected[i] {
					t.Errorf("Expected %v, got %v", tc.expected, ids)
					break
				}
			}
		})
	}
}

func TestDecomposeCompoundCard(t *testing.T) {
	t.Parallel()

	// Marker ids {1, 1, 2} collapse to two distinct units.
	card := clozeCard(t, "The {{1::heart}} {{1::pumps}} {{2::blood}}")

	units := Decompose(card)

	if len(units) != 2 {
		t.Fatalf("Expected 2 study units, got %d", len(units))
	}

	if units[0].TargetMarker != 1 || units[1].TargetMarker != 2 {
		t.Errorf("Expected targets 1 and 2, got %d and %d",
			units[0].TargetMarker, units[1].TargetMarker)
	}

	for i, unit := range units {
		if unit.TotalMarkers != 2 {
			t.Errorf("unit %d: expected total markers 2, got %d", i, unit.TotalMarkers)
		}
		if unit.Card != card {
			t.Errorf("unit %d: expected all units to share the parent card", i)
		}
		if !unit.Compound() {
			t.Errorf("unit %d: expected compound unit", i)
		}
	}
}

func TestDecomposeSingleAndEmpty(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		text         string
		targetMarker int
		totalMarkers int
	}{
		{
			name:         "single marker id yields one targeted unit",
			text:         "{{1::Paris}} is the capital of France",
			targetMarker: 1,
			totalMarkers: 1,
		},
		{
			name:         "no markers yields one untargeted unit",
			text:         "just a sentence",
			targetMarker: 0,
			totalMarkers: 0,
		},
		{
			name:         "repeated single id still yields one unit",
			text:         "{{2::a}} and {{2::b}}",
			targetMarker: 2,
			totalMarkers: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			units := Decompose(clozeCard(t, tc.text))

			if len(units) != 1 {
				t.Fatalf("Expected exactly 1 study unit, got %d", len(units))
			}
			if units[0].TargetMarker != tc.targetMarker {
				t.Errorf("Expected target %d, got %d", tc.targetMarker, units[0].TargetMarker)
			}
			if units[0].TotalMarkers != tc.totalMarkers {
				t.Errorf("Expected total %d, got %d", tc.totalMarkers, units[0].TotalMarkers)
			}
		})
	}
}

func TestDecomposeFrontBack(t *testing.T) {
	t.Parallel()

	card := frontBackCard(t, "What is Go?", "A programming language")
	units := Decompose(card)

	if len(units) != 1 {
		t.Fatalf("Expected 1 study unit, got %d", len(units))
	}
	if units[0].TargetMarker != 0 || units[0].TotalMarkers != 0 {
		t.Errorf("Expected untargeted unit, got %+v", units[0])
	}
}

func TestRenderQuestionConcealsAllMarkers(t *testing.T) {
	t.Parallel()

	card := clozeCard(t, "The {{1::heart}} pumps {{2::blood}}")
	units := Decompose(card)

	question := RenderQuestion(units[0])
	expected := "The [...] pumps [...]"
	if question != expected {
		t.Errorf("Expected %q, got %q", expected, question)
	}
}

func TestRenderAnswerPolicies(t *testing.T) {
	t.Parallel()

	card := clozeCard(t, "The {{1::heart}} pumps {{2::blood}}")
	units := Decompose(card)

	// Default policy uncovers everything, matching the observed behavior of
	// the original renderer.
	all := RenderAnswer(units[0], RevealAll)
	if all != "The heart pumps blood" {
		t.Errorf("RevealAll: got %q", all)
	}

	// Targeted policy keeps the other group concealed.
	target := RenderAnswer(units[0], RevealTarget)
	if target != "The heart pumps [...]" {
		t.Errorf("RevealTarget: got %q", target)
	}
}

func TestRenderFrontBack(t *testing.T) {
	t.Parallel()

	card := frontBackCard(t, "What is Go?", "A programming language")
	unit := Decompose(card)[0]

	if q := RenderQuestion(unit); q != "What is Go?" {
		t.Errorf("Expected front text, got %q", q)
	}
	if a := RenderAnswer(unit, RevealAll); a != "A programming language" {
		t.Errorf("Expected back text, got %q", a)
	}
}
