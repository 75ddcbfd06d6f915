// Package study implements the study session state machine: it resolves a
// study set from the card store, expands compound cards into study units,
// presents units one at a time, drives the scheduler on each answer, and
// persists outcomes atomically per answer.
//
// Sessions live in an in-memory registry keyed by session id. One unit is in
// flight per session at a time, enforced by a per-session mutex. The
// persisted StudySession row is updated transactionally together with the
// card's scheduling state and the appended review, so a crash between answers
// never leaves counters ahead of the review log.
package study
