// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - IndexService: The remote service that indexes documents and answers queries
//   - TranscriptStore: Per-(user, document) ordered message log with live subscriptions
//   - DocumentStore: Per-user document history persistence
//   - Router: The /chat/:documentId route binding
//   - SessionProvider: The user session boundary (auth collaborator)
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
