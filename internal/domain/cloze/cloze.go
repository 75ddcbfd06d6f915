// Package cloze parses compound fill-in-the-blank cards and decomposes them
// into the independent study units they represent.
//
// A cloze card's text contains markers of the form {{N::answer}}, where N is
// a small positive marker group id. A marker id may repeat to indicate
// several blanks revealed together. Each distinct id becomes one study unit,
// all sharing the same underlying card.
package cloze

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/quillmind/recall-api/internal/domain"
)

// markerPattern matches {{N::answer}} markers. The answer segment is
// non-greedy so adjacent markers on one line do not swallow each other.
var markerPattern = regexp.MustCompile(`\{\{(\d+)::(.+?)\}\}`)

// Blank is the placeholder shown in place of a concealed marker.
const Blank = "[...]"

// RevealPolicy controls how much of a compound card's answer side is
// uncovered when one unit is answered.
type RevealPolicy string

const (
	// RevealAll uncovers every marker on the answer side regardless of which
	// marker the active unit targets. This is the default behavior.
	RevealAll RevealPolicy = "all"

	// RevealTarget uncovers only the targeted marker group, keeping the
	// other blanks concealed.
	RevealTarget RevealPolicy = "target"
)

// Marker is one parsed {{N::answer}} occurrence.
type Marker struct {
	ID     int
	Answer string
}

// ParseMarkers extracts every marker occurrence from the text, in order.
// Text without markers yields an empty slice.
func ParseMarkers(text string) []Marker {
	matches := markerPattern.FindAllStringSubmatch(text, -1)
	markers := make([]Marker, 0, len(matches))
	for _, m := range matches {
		id, err := strconv.Atoi(m[1])
		if err != nil || id <= 0 {
			// The pattern only admits digits, so this is a zero id; skip it
			// rather than treat it as a valid group.
			continue
		}
		markers = append(markers, Marker{ID: id, Answer: m[2]})
	}
	return markers
}

// DistinctIDs returns the sorted set of distinct marker ids present in the
// text.
func DistinctIDs(text string) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, marker := range ParseMarkers(text) {
		if !seen[marker.ID] {
			seen[marker.ID] = true
			ids = append(ids, marker.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Decompose expands a card into its study units.
//
// A front/back card always yields exactly one unit. A cloze card yields one
// unit per distinct marker id; a cloze card with zero or one distinct ids
// yields a single unit. All units of a compound card reference the same
// underlying card, so answering each one schedules that card independently.
func Decompose(card *domain.Card) []domain.StudyUnit {
	if card.Content.Type != domain.ContentTypeCloze {
		return []domain.StudyUnit{{Card: card}}
	}

	ids := DistinctIDs(card.Content.Cloze.Text)
	switch len(ids) {
	case 0:
		return []domain.StudyUnit{{Card: card}}
	case 1:
		return []domain.StudyUnit{{Card: card, TargetMarker: ids[0], TotalMarkers: 1}}
	}

	units := make([]domain.StudyUnit, 0, len(ids))
	for _, id := range ids {
		units = append(units, domain.StudyUnit{
			Card:         card,
			TargetMarker: id,
			TotalMarkers: len(ids),
		})
	}
	return units
}

// RenderQuestion produces the question form of a unit. For front/back cards
// this is the front text. For cloze cards every marker is concealed behind a
// blank; the unit's target id tells the learner which blank is being asked.
func RenderQuestion(unit domain.StudyUnit) string {
	content := unit.Card.Content
	if content.Type == domain.ContentTypeFrontBack {
		return content.FrontBack.Front
	}

	return replaceMarkers(content.Cloze.Text, func(m Marker) string {
		return Blank
	})
}

// RenderAnswer produces the answer form of a unit under the given reveal
// policy. For front/back cards this is the back text. For cloze cards the
// policy decides whether every marker or only the targeted group is
// uncovered.
func RenderAnswer(unit domain.StudyUnit, policy RevealPolicy) string {
	content := unit.Card.Content
	if content.Type == domain.ContentTypeFrontBack {
		return content.FrontBack.Back
	}

	return replaceMarkers(content.Cloze.Text, func(m Marker) string {
		if policy == RevealTarget && unit.TargetMarker != 0 && m.ID != unit.TargetMarker {
			return Blank
		}
		return m.Answer
	})
}

// replaceMarkers rewrites every marker occurrence using the supplied
// function, leaving surrounding text untouched.
func replaceMarkers(text string, render func(Marker) string) string {
	return markerPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := markerPattern.FindStringSubmatch(match)
		id, err := strconv.Atoi(sub[1])
		if err != nil || id <= 0 {
			return match
		}
		return render(Marker{ID: id, Answer: sub[2]})
	})
}

// Describe returns a short human-readable label for a unit, used in logs.
func Describe(unit domain.StudyUnit) string {
	if unit.TargetMarker == 0 {
		return "single"
	}
	return fmt.Sprintf("marker %d of %d", unit.TargetMarker, unit.TotalMarkers)
}

// ContainsMarkers reports whether the text has at least one cloze marker.
func ContainsMarkers(text string) bool {
	return strings.Contains(text, "{{") && markerPattern.MatchString(text)
}
