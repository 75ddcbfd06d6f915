// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of the store interfaces,
// facilitating consistent and DRY testing across the codebase. Instead of
// defining inline mocks in individual test files, these standardized mock
// implementations can be reused.
//
// Each mock follows the same shape: function fields (XxxFn) override
// individual methods, and a simple in-memory map backs the default behavior
// so most tests need no configuration at all.
//
// Usage:
//
//	import "github.com/quillmind/recall-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    cardStore := mocks.NewMockCardStore()
//	    cardStore.UpdateSchedulingFn = func(ctx context.Context, card *domain.Card, expected time.Time) error {
//	        return store.ErrStaleWrite
//	    }
//
//	    // Use the mock in your test...
//	}
package mocks
