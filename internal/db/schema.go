package db

import (
	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type OwnerKind string

const (
	OWNER_ANNOUNCEMENT OwnerKind = "announcement"
	OWNER_ASSIGNMENT   OwnerKind = "assignment"
	OWNER_SUBMISSION   OwnerKind = "submission"
)
