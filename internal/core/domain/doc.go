// Package domain contains the core business entities for docchat.
// These types have no dependencies on adapters or infrastructure.
package domain
