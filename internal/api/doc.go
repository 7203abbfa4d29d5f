// Package api contains the HTTP handlers for the task management API.
// Handlers decode and validate requests, delegate to the service layer,
// and translate service errors into sanitized HTTP responses.
package api
