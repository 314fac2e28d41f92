package db

import (
	"database/sql"
)

type Announcement struct {
	ID       int64
	ClassID  int64
	Name     string
	Author   string
	Link     string
	RawDate  string
	PostedAt sql.NullInt64
	Message  sql.NullString
}

type Assignment struct {
	ID             int64
	ClassID        int64
	Name           string
	Link           string
	RawDueDate     string
	DueAt          sql.NullInt64
	Status         int64
	Message        sql.NullString
	Grade          sql.NullString
	Feedback       sql.NullString
	UsesInlineText bool
}

type Attachment struct {
	ID        int64
	OwnerKind string
	OwnerID   int64
	Position  int64
	Name      string
	Link      sql.NullString
	RawText   sql.NullString
}

type Class struct {
	ID        int64
	Name      string
	Link      string
	ScrapedAt int64
}
