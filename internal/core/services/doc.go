// Package services implements the core application services for docchat:
// the message assembler, citation attacher, conversation store, and
// stream orchestrator. Services are pure state machines driven through
// ports; only the backend client port touches the network.
package services
