// Package events defines the task event channel: the contract between the
// task mutation pipeline (publisher) and the notification ingester
// (subscriber), plus the NATS JetStream implementation used in production
// and an in-memory implementation used in tests.
//
// Delivery is at-least-once. Events published for the same owner are
// delivered in publication order; no ordering is guaranteed across owners.
package events
