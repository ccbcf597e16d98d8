// Package services implements the core application logic: building
// grounded answers from the knowledge corpus and running the offline
// document-to-knowledge ingestion batch.
//
// Services orchestrate the leaf components (classifier, chunker,
// ranker, assembler, knowledge store) and call driven ports for
// anything external. They never surface a raw failure to the user:
// the worst-case answer is the fixed refusal text.
package services
