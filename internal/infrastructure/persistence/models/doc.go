// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Rows are converted with ToDomain, which validates closed unions and entry shapes.
// A row that does not map is reported as INCONSISTENT_LIST_DATA rather than skipped.
//
// Tables:
//   - tenants: hierarchy depth, parent and the legacy assigned list
//   - price_lists / price_list_entries: list headers and rate rows
//   - price_list_assignments: list-to-tenant links with soft revocation
//   - quote_audits: one row per computed quote
package models
