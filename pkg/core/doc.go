// Package core defines the shared language of the leaptable system.
//
// This package contains:
//   - Table configuration (Part, Column, Row, TableConfig)
//   - Inbound data shapes (Attribute, Document, LinkInstance)
//   - Cursor types and directions
//   - Sentinel errors shared by the tree packages
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
