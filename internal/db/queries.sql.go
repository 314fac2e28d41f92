package db

import (
	"context"
	"database/sql"
)

const createAttachment = `-- name: CreateAttachment :exec
insert into attachment(owner_kind, owner_id, position, name, link, raw_text)
values (?, ?, ?, ?, ?, ?)
`

type CreateAttachmentParams struct {
	OwnerKind string
	OwnerID   int64
	Position  int64
	Name      string
	Link      sql.NullString
	RawText   sql.NullString
}

func (q *Queries) CreateAttachment(ctx context.Context, arg CreateAttachmentParams) error {
	_, err := q.db.ExecContext(ctx, createAttachment,
		arg.OwnerKind,
		arg.OwnerID,
		arg.Position,
		arg.Name,
		arg.Link,
		arg.RawText,
	)
	return err
}

const deleteAttachments = `-- name: DeleteAttachments :exec
delete from attachment where owner_kind = ? and owner_id = ?
`

type DeleteAttachmentsParams struct {
	OwnerKind string
	OwnerID   int64
}

func (q *Queries) DeleteAttachments(ctx context.Context, arg DeleteAttachmentsParams) error {
	_, err := q.db.ExecContext(ctx, deleteAttachments, arg.OwnerKind, arg.OwnerID)
	return err
}

const getAttachments = `-- name: GetAttachments :many
select id, owner_kind, owner_id, position, name, link, raw_text from attachment where owner_kind = ? and owner_id = ? order by position
`

type GetAttachmentsParams struct {
	OwnerKind string
	OwnerID   int64
}

func (q *Queries) GetAttachments(ctx context.Context, arg GetAttachmentsParams) ([]Attachment, error) {
	rows, err := q.db.QueryContext(ctx, getAttachments, arg.OwnerKind, arg.OwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Attachment
	for rows.Next() {
		var i Attachment
		if err := rows.Scan(
			&i.ID,
			&i.OwnerKind,
			&i.OwnerID,
			&i.Position,
			&i.Name,
			&i.Link,
			&i.RawText,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getClassAnnouncements = `-- name: GetClassAnnouncements :many
select id, class_id, name, author, link, raw_date, posted_at, message from announcement where class_id = ? order by posted_at desc, id
`

func (q *Queries) GetClassAnnouncements(ctx context.Context, classID int64) ([]Announcement, error) {
	rows, err := q.db.QueryContext(ctx, getClassAnnouncements, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Announcement
	for rows.Next() {
		var i Announcement
		if err := rows.Scan(
			&i.ID,
			&i.ClassID,
			&i.Name,
			&i.Author,
			&i.Link,
			&i.RawDate,
			&i.PostedAt,
			&i.Message,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getClassAssignments = `-- name: GetClassAssignments :many
select id, class_id, name, link, raw_due_date, due_at, status, message, grade, feedback, uses_inline_text from assignment where class_id = ? order by due_at, id
`

func (q *Queries) GetClassAssignments(ctx context.Context, classID int64) ([]Assignment, error) {
	rows, err := q.db.QueryContext(ctx, getClassAssignments, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Assignment
	for rows.Next() {
		var i Assignment
		if err := rows.Scan(
			&i.ID,
			&i.ClassID,
			&i.Name,
			&i.Link,
			&i.RawDueDate,
			&i.DueAt,
			&i.Status,
			&i.Message,
			&i.Grade,
			&i.Feedback,
			&i.UsesInlineText,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getClasses = `-- name: GetClasses :many
select id, name, link, scraped_at from class order by name
`

func (q *Queries) GetClasses(ctx context.Context) ([]Class, error) {
	rows, err := q.db.QueryContext(ctx, getClasses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Class
	for rows.Next() {
		var i Class
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Link,
			&i.ScrapedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertAnnouncement = `-- name: UpsertAnnouncement :one
insert into announcement(class_id, name, author, link, raw_date, posted_at, message)
values (?, ?, ?, ?, ?, ?, ?)
on conflict(class_id, link) do update set
    name = excluded.name,
    author = excluded.author,
    raw_date = excluded.raw_date,
    posted_at = excluded.posted_at,
    message = coalesce(excluded.message, announcement.message)
returning id
`

type UpsertAnnouncementParams struct {
	ClassID  int64
	Name     string
	Author   string
	Link     string
	RawDate  string
	PostedAt sql.NullInt64
	Message  sql.NullString
}

func (q *Queries) UpsertAnnouncement(ctx context.Context, arg UpsertAnnouncementParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertAnnouncement,
		arg.ClassID,
		arg.Name,
		arg.Author,
		arg.Link,
		arg.RawDate,
		arg.PostedAt,
		arg.Message,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const upsertAssignment = `-- name: UpsertAssignment :one
insert into assignment(
    class_id, name, link, raw_due_date, due_at, status,
    message, grade, feedback, uses_inline_text
)
values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
on conflict(class_id, link) do update set
    name = excluded.name,
    raw_due_date = excluded.raw_due_date,
    due_at = excluded.due_at,
    status = excluded.status,
    message = excluded.message,
    grade = excluded.grade,
    feedback = excluded.feedback,
    uses_inline_text = excluded.uses_inline_text
returning id
`

type UpsertAssignmentParams struct {
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

func (q *Queries) UpsertAssignment(ctx context.Context, arg UpsertAssignmentParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertAssignment,
		arg.ClassID,
		arg.Name,
		arg.Link,
		arg.RawDueDate,
		arg.DueAt,
		arg.Status,
		arg.Message,
		arg.Grade,
		arg.Feedback,
		arg.UsesInlineText,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const upsertClass = `-- name: UpsertClass :one
insert into class(name, link, scraped_at) values (?, ?, ?)
on conflict(link) do update set name = excluded.name, scraped_at = excluded.scraped_at
returning id
`

type UpsertClassParams struct {
	Name      string
	Link      string
	ScrapedAt int64
}

func (q *Queries) UpsertClass(ctx context.Context, arg UpsertClassParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertClass, arg.Name, arg.Link, arg.ScrapedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}
