package portal

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Class owns the announcements and assignments scraped from one course site.
type Class struct {
	Name          string
	Link          string
	Announcements []*Announcement
	Assignments   []*Assignment
}

func (c *Class) AddAnnouncement(a *Announcement) {
	a.Class = c
	c.Announcements = append(c.Announcements, a)
}

func (c *Class) AddAssignment(a *Assignment) {
	a.Class = c
	c.Assignments = append(c.Assignments, a)
}

// Attachment is either a FileAttachment or an InlineAttachment.
type Attachment interface {
	Name() string
	isAttachment()
}

// FileAttachment references a file hosted by the portal (or an image hosted elsewhere).
type FileAttachment struct {
	Link     string
	FileName string
}

func (f FileAttachment) Name() string { return f.FileName }
func (FileAttachment) isAttachment()  {}

// InlineAttachment is text captured directly from the page, it has no link.
type InlineAttachment struct {
	FileName string
	RawText  string
}

func (i InlineAttachment) Name() string { return i.FileName }
func (InlineAttachment) isAttachment()  {}

// Announcement is a single announcement of a class, its message and
// attachments are loaded lazily by Engine.LoadAnnouncement.
type Announcement struct {
	Class   *Class
	Name    string
	Author  string
	RawDate string
	Date    *time.Time

	mutex       sync.Mutex
	link        string
	generation  uint64
	message     *string
	attachments []Attachment
	flight      singleflight.Group
}

func NewAnnouncement(name, author, link, rawDate string) *Announcement {
	return &Announcement{
		Name:    name,
		Author:  author,
		RawDate: rawDate,
		Date:    ParseDate(rawDate),
		link:    link,
	}
}

func (a *Announcement) Link() string {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.link
}

// SetLink points the announcement at a new page, anything loaded from the old
// link is dropped and loads still in flight for it are discarded.
func (a *Announcement) SetLink(link string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.link = link
	a.generation++
	a.message = nil
	a.attachments = nil
}

func (a *Announcement) Message() (string, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.message == nil {
		return "", false
	}
	return *a.message, true
}

// Attachments returns nil until a load succeeds.
func (a *Announcement) Attachments() []Attachment {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.attachments
}

type assignmentFields struct {
	message        *string
	grade          *string
	feedback       *string
	attachments    []Attachment
	submissions    []Attachment
	usesInlineText bool
}

// Assignment is a single assignment of a class, every call to
// Engine.LoadAssignment clears and re-derives its lazily loaded fields.
type Assignment struct {
	Class      *Class
	Name       string
	RawDueDate string
	DueDate    *time.Time
	Status     CompletionStatus

	mutex      sync.Mutex
	link       string
	generation uint64
	fields     assignmentFields
}

func NewAssignment(name, link, rawDueDate, rawStatus string) *Assignment {
	return &Assignment{
		Name:       name,
		RawDueDate: rawDueDate,
		DueDate:    ParseDate(rawDueDate),
		Status:     StatusFromString(rawStatus),
		link:       link,
	}
}

func (a *Assignment) Link() string {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.link
}

// SetLink points the assignment at a new page and discards loads in flight.
func (a *Assignment) SetLink(link string) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.link = link
	a.generation++
	a.fields = assignmentFields{}
}

// begin starts a new load generation, superseding any load still running.
func (a *Assignment) begin() (link string, generation uint64) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.generation++
	a.fields = assignmentFields{}
	return a.link, a.generation
}

// update applies fn to the fields if `generation` is still the latest load,
// it returns false when the load has been superseded.
func (a *Assignment) update(generation uint64, fn func(f *assignmentFields)) bool {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	if a.generation != generation {
		return false
	}
	fn(&a.fields)
	return true
}

func deref(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

func (a *Assignment) Message() (string, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return deref(a.fields.message)
}

func (a *Assignment) Grade() (string, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return deref(a.fields.grade)
}

func (a *Assignment) Feedback() (string, bool) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return deref(a.fields.feedback)
}

func (a *Assignment) Attachments() []Attachment {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.fields.attachments
}

func (a *Assignment) Submissions() []Attachment {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.fields.submissions
}

func (a *Assignment) UsesInlineText() bool {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	return a.fields.usesInlineText
}
