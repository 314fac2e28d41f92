package archive

import (
	"context"

	"coursesync-backend/internal/db"
)

type AnnouncementRecord struct {
	db.Announcement
	Attachments []db.Attachment
}

type AssignmentRecord struct {
	db.Assignment
	Attachments []db.Attachment
	Submissions []db.Attachment
}

type ClassRecord struct {
	db.Class
	Announcements []AnnouncementRecord
	Assignments   []AssignmentRecord
}

func (a Archive) attachments(ctx context.Context, kind db.OwnerKind, ownerId int64) ([]db.Attachment, error) {
	param := db.GetAttachmentsParams{OwnerKind: string(kind), OwnerID: ownerId}
	attachments, err := a.db.GetAttachments(ctx, param)
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "GetAttachments", param)
		return nil, err
	}
	return attachments, nil
}

// Classes reads back every archived class with its announcements and assignments.
func (a Archive) Classes(ctx context.Context) ([]ClassRecord, error) {
	ctx, span := tracer.Start(ctx, "Classes")
	defer span.End()

	classes, err := a.db.GetClasses(ctx)
	if err != nil {
		a.tel.ReportBroken(report_db_query, err, "GetClasses")
		return nil, err
	}

	out := make([]ClassRecord, len(classes))
	for i, class := range classes {
		out[i].Class = class

		announcements, err := a.db.GetClassAnnouncements(ctx, class.ID)
		if err != nil {
			a.tel.ReportBroken(report_db_query, err, "GetClassAnnouncements", class.ID)
			return nil, err
		}
		for _, announcement := range announcements {
			attachments, err := a.attachments(ctx, db.OWNER_ANNOUNCEMENT, announcement.ID)
			if err != nil {
				return nil, err
			}
			out[i].Announcements = append(out[i].Announcements, AnnouncementRecord{
				Announcement: announcement,
				Attachments:  attachments,
			})
		}

		assignments, err := a.db.GetClassAssignments(ctx, class.ID)
		if err != nil {
			a.tel.ReportBroken(report_db_query, err, "GetClassAssignments", class.ID)
			return nil, err
		}
		for _, assignment := range assignments {
			attachments, err := a.attachments(ctx, db.OWNER_ASSIGNMENT, assignment.ID)
			if err != nil {
				return nil, err
			}
			submissions, err := a.attachments(ctx, db.OWNER_SUBMISSION, assignment.ID)
			if err != nil {
				return nil, err
			}
			out[i].Assignments = append(out[i].Assignments, AssignmentRecord{
				Assignment:  assignment,
				Attachments: attachments,
				Submissions: submissions,
			})
		}
	}
	return out, nil
}
