// Package service provides application-level services that sit between the
// HTTP layer and the stores. The study session state machine lives in the
// study subpackage and statistics in the analytics subpackage; this package
// holds the card lifecycle operations that bypass the scheduler.
package service
