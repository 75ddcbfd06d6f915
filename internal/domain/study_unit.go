package domain

// StudyUnit is one presentable quiz instance derived from a card. It is
// transient and never persisted: a front/back card yields exactly one unit,
// while a cloze card with N distinct marker ids yields N units, each
// targeting one marker of the same underlying card.
type StudyUnit struct {
	Card *Card

	// TargetMarker is the cloze marker group id this unit quizzes, or 0 for
	// front/back cards and cloze cards without markers.
	TargetMarker int

	// TotalMarkers is how many distinct marker ids the parent card contains.
	TotalMarkers int
}

// Compound reports whether this unit is one of several derived from the same
// card.
func (u StudyUnit) Compound() bool {
	return u.TotalMarkers > 1
}
