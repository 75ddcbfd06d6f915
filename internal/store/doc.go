// Package store defines the persistence interfaces consumed by the service
// layer, together with the sentinel errors and transaction helpers shared by
// every implementation. Concrete backends live under internal/platform.
package store
