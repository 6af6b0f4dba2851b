// Package models contains GORM persistence models and the mappers between
// them and domain aggregates. Domain types carry no ORM tags; every table
// layout lives here and in migrations/.
//
// The models stay portable across PostgreSQL, MySQL and SQLite: ids are
// stored as uuid/char(36), money as fixed-point decimals, and nested value
// objects (billing address, settings blocks) as prefixed embedded columns.
package models
