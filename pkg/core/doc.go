// Package core defines the AST shared by the parser, the lineage resolver
// and the printer.
//
// This package contains:
//   - The statement model (Statement, Column, TableSource, Join)
//   - The closed expression union and its reference sets
//   - The join graph and its builder
//   - The Visitor contract used by external renderers
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
