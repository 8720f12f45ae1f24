// Package types defines the Pantry and Table interfaces, entity types,
// and standard error types for the stocklist storage system.
package types
