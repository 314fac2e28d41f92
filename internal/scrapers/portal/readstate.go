package portal

import (
	"context"
	"fmt"
	"sync"

	"coursesync-backend/internal/components/assert"
	"coursesync-backend/internal/components/chrono"
	"coursesync-backend/internal/components/settings"
	"coursesync-backend/internal/components/telemetry"
)

const (
	InstallDateKey       = "install_date"
	ReadAnnouncementsKey = "read_announcements"
)

// ReadState tracks which announcements have been read. Announcements posted
// before the install date count as read so that a fresh install does not
// flag a whole semester of history as new.
//
// Dates are compared at second precision, which is finer than what the portal renders.
type ReadState struct {
	// guards the read-modify-write of the read list
	mutex *sync.Mutex
	store settings.Store
	time  chrono.TimeAPI
	tel   telemetry.API
}

func NewReadState(store settings.Store, time chrono.TimeAPI, tel telemetry.API) ReadState {
	assert.NotNil(store)
	assert.NotNil(time)
	assert.NotNil(tel)

	return ReadState{
		mutex: &sync.Mutex{},
		store: store,
		time:  time,
		tel:   telemetry.NewScopedAPI("portal", tel),
	}
}

// EnsureInstallDate records the current time as the install date unless one
// is already stored, it returns the stored install date.
func (r ReadState) EnsureInstallDate(ctx context.Context) (int64, error) {
	installed, found, err := settings.GetJSON[int64](ctx, r.store, InstallDateKey)
	if err != nil {
		return 0, err
	}
	if found {
		return installed, nil
	}

	installed = r.time.Now().Unix()
	err = settings.SetJSON(ctx, r.store, InstallDateKey, installed)
	if err != nil {
		return 0, fmt.Errorf("store install date: %w", err)
	}
	return installed, nil
}

// HasBeenRead reports whether the announcement is read, announcements without
// a parseable date are always read. Store failures are reported and the
// announcement is treated as unread.
func (r ReadState) HasBeenRead(ctx context.Context, a *Announcement) bool {
	if a.Date == nil {
		return true
	}
	date := a.Date.Unix()

	installed, found, err := settings.GetJSON[int64](ctx, r.store, InstallDateKey)
	if err != nil {
		r.tel.ReportBroken(report_read_state_has_been_read, fmt.Errorf("read install date: %w", err))
	}
	if found && date < installed {
		return true
	}

	read, _, err := settings.GetJSON[[]int64](ctx, r.store, ReadAnnouncementsKey)
	if err != nil {
		r.tel.ReportBroken(report_read_state_has_been_read, fmt.Errorf("read list: %w", err))
		return false
	}
	for _, d := range read {
		if d == date {
			return true
		}
	}
	return false
}

// MarkRead puts the announcement's date at the front of the read list.
func (r ReadState) MarkRead(ctx context.Context, a *Announcement) error {
	if a.Date == nil {
		return nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	read, _, err := settings.GetJSON[[]int64](ctx, r.store, ReadAnnouncementsKey)
	if err != nil {
		r.tel.ReportBroken(report_read_state_mark_read, fmt.Errorf("read list: %w", err))
		return err
	}
	read = append([]int64{a.Date.Unix()}, read...)

	err = settings.SetJSON(ctx, r.store, ReadAnnouncementsKey, read)
	if err != nil {
		r.tel.ReportBroken(report_read_state_mark_read, fmt.Errorf("write list: %w", err))
		return err
	}
	return nil
}
