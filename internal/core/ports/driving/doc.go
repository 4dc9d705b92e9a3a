// Package driving defines the driving ports (primary/input interfaces)
// for the docchat core. The CLI, TUI, and MCP adapters consume these
// interfaces; core services implement them.
package driving
