// Package driving defines the interfaces external actors (the CLI) use
// to drive the core application: answering policy questions and
// ingesting source documents.
//
// Implementations of these interfaces live in internal/core/services.
package driving
