// Package domain defines the core business entities of the task manager
// and their validation rules. Entities are created through constructors
// that assign identifiers and timestamps; stores persist them as-is.
package domain
