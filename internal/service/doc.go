// Package service contains the business orchestration layer: the task
// mutation pipeline (store writes, cache coherence, event publication),
// the notification ingestion entry point shared by the event channel and
// the overdue scanner, and user registration.
package service
