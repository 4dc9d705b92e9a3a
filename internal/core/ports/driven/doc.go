// Package driven defines the driven ports (secondary/output interfaces)
// for the docchat core. Adapters implement these interfaces to connect
// the core to the answering service, presentation, and storage.
package driven
