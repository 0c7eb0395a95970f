// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing the review and session rules to
// remain independent of specific database technologies or persistence details.
//
// Two backends implement them: internal/platform/postgres for production and
// internal/platform/memory for local runs and tests.
package store
