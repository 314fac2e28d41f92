package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"coursesync-backend/internal/components/assert"
	"coursesync-backend/internal/components/chrono"
	"coursesync-backend/internal/components/telemetry"
	"coursesync-backend/internal/db"
	"coursesync-backend/internal/scrapers/portal"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("archive")

const (
	report_db_query   = "db.query"
	report_save_class = "archive.save-class"
)

// Archive persists scraped classes so they can be browsed without the portal.
type Archive struct {
	db     *db.Queries
	makeTx db.MakeTx
	time   chrono.TimeAPI
	tel    telemetry.API
}

func NewArchive(
	qry *db.Queries,
	makeTx db.MakeTx,
	time chrono.TimeAPI,
	tel telemetry.API,
) Archive {
	assert.NotNil(qry)
	assert.NotNil(makeTx)
	assert.NotNil(time)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("archive", tel)

	return Archive{
		db:     qry,
		makeTx: makeTx,
		time:   time,
		tel:    tel,
	}
}

func nullString(value string, ok bool) sql.NullString {
	return sql.NullString{String: value, Valid: ok}
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func (a Archive) saveAttachments(ctx context.Context, tx *db.Queries, kind db.OwnerKind, ownerId int64, attachments []portal.Attachment) error {
	deleteParam := db.DeleteAttachmentsParams{
		OwnerKind: string(kind),
		OwnerID:   ownerId,
	}
	err := tx.DeleteAttachments(ctx, deleteParam)
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "DeleteAttachments", deleteParam)
		return err
	}

	for i, attachment := range attachments {
		param := db.CreateAttachmentParams{
			OwnerKind: string(kind),
			OwnerID:   ownerId,
			Position:  int64(i),
			Name:      attachment.Name(),
		}
		switch attachment := attachment.(type) {
		case portal.FileAttachment:
			param.Link = nullString(attachment.Link, true)
		case portal.InlineAttachment:
			param.RawText = nullString(attachment.RawText, true)
		}

		err = tx.CreateAttachment(ctx, param)
		if err != nil {
			a.tel.ReportBroken(report_db_query, err, "CreateAttachment", param)
			return err
		}
	}
	return nil
}

func (a Archive) saveAnnouncement(ctx context.Context, tx *db.Queries, classId int64, announcement *portal.Announcement) error {
	message, loaded := announcement.Message()
	param := db.UpsertAnnouncementParams{
		ClassID:  classId,
		Name:     announcement.Name,
		Author:   announcement.Author,
		Link:     announcement.Link(),
		RawDate:  announcement.RawDate,
		PostedAt: nullTime(announcement.Date),
		Message:  nullString(message, loaded),
	}
	id, err := tx.UpsertAnnouncement(ctx, param)
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "UpsertAnnouncement", param.Link)
		return err
	}

	// an announcement that never loaded keeps what was archived previously
	if !loaded {
		return nil
	}
	return a.saveAttachments(ctx, tx, db.OWNER_ANNOUNCEMENT, id, announcement.Attachments())
}

func (a Archive) saveAssignment(ctx context.Context, tx *db.Queries, classId int64, assignment *portal.Assignment) error {
	message, hasMessage := assignment.Message()
	grade, hasGrade := assignment.Grade()
	feedback, hasFeedback := assignment.Feedback()

	param := db.UpsertAssignmentParams{
		ClassID:        classId,
		Name:           assignment.Name,
		Link:           assignment.Link(),
		RawDueDate:     assignment.RawDueDate,
		DueAt:          nullTime(assignment.DueDate),
		Status:         int64(assignment.Status),
		Message:        nullString(message, hasMessage),
		Grade:          nullString(grade, hasGrade),
		Feedback:       nullString(feedback, hasFeedback),
		UsesInlineText: assignment.UsesInlineText(),
	}
	id, err := tx.UpsertAssignment(ctx, param)
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "UpsertAssignment", param.Link)
		return err
	}

	err = a.saveAttachments(ctx, tx, db.OWNER_ASSIGNMENT, id, assignment.Attachments())
	if err != nil {
		return err
	}
	return a.saveAttachments(ctx, tx, db.OWNER_SUBMISSION, id, assignment.Submissions())
}

// SaveClass writes a class and everything loaded into it in one transaction.
func (a Archive) SaveClass(ctx context.Context, class *portal.Class) error {
	ctx, span := tracer.Start(ctx, "SaveClass")
	defer span.End()
	span.SetAttributes(attribute.String("class", class.Name))

	tx, discard, commit, err := a.makeTx()
	if err != nil {
		a.tel.ReportBroken(report_db_query, fmt.Errorf("make tx: %w", err))
		return err
	}
	defer discard()

	classParam := db.UpsertClassParams{
		Name:      class.Name,
		Link:      class.Link,
		ScrapedAt: a.time.Now().Unix(),
	}
	classId, err := tx.UpsertClass(ctx, classParam)
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "UpsertClass", classParam)
		return err
	}

	for _, announcement := range class.Announcements {
		err = a.saveAnnouncement(ctx, tx, classId, announcement)
		if err != nil {
			return err
		}
	}
	for _, assignment := range class.Assignments {
		err = a.saveAssignment(ctx, tx, classId, assignment)
		if err != nil {
			return err
		}
	}

	err = commit()
	if err != nil {
		a.tel.ReportBroken(report_save_class, fmt.Errorf("commit: %w", err), class.Name)
		return err
	}
	a.tel.ReportCount(report_save_class, int64(len(class.Announcements)+len(class.Assignments)))
	return nil
}
