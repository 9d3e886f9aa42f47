// Package store defines the persistence interfaces used by the service
// layer, together with the sentinel errors store implementations return.
package store
