package portal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coursesync-backend/internal/components/mainloop"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const interstitialPage = `<html><body><div>Loading...</div></body></html>`

const announcementPage = `<html><body>
<h2>Field trip</h2>
<p>Hello <b>class</b>,&lt;o:p&gt;&lt;/o:p&gt;</p>
<p>Bring a lunch.<br>Permission slips are due Friday.</p>
<img src="https://cdn.example.edu/bus.png">
<a href="/access/content/attachment/5/slip.pdf">slip.pdf</a>
</body></html>`

const movedAnnouncementPage = `<html><body><p>The trip moved to Monday.</p></body></html>`

func TestLoadAnnouncementRetriesUntilRendered(t *testing.T) {
	accessor := &stubAccessor{pages: []string{interstitialPage, interstitialPage, announcementPage}}
	engine, _ := newTestEngine(t, accessor, immediateRetry(0))

	a := NewAnnouncement("Field trip", "Ms. Smith", "/announcement/1", "Sep 5, 2017 11:55 pm")
	message := engine.LoadAnnouncement(context.Background(), a)

	require.Equal(t, "Hello class,\nBring a lunch.\nPermission slips are due Friday.", message)
	require.Equal(t, 3, accessor.Fetches())

	stored, ok := a.Message()
	require.True(t, ok)
	require.Equal(t, message, stored)

	expected := []Attachment{
		FileAttachment{Link: "https://cdn.example.edu/bus.png", FileName: "Attached image"},
		FileAttachment{Link: "/access/content/attachment/5/slip.pdf", FileName: "slip.pdf"},
	}
	require.Empty(t, cmp.Diff(expected, a.Attachments()))
}

func TestLoadAnnouncementMemoizes(t *testing.T) {
	accessor := &stubAccessor{pages: []string{announcementPage}}
	engine, _ := newTestEngine(t, accessor, immediateRetry(5))

	a := NewAnnouncement("Field trip", "Ms. Smith", "/announcement/1", "")
	first := engine.LoadAnnouncement(context.Background(), a)
	second := engine.LoadAnnouncement(context.Background(), a)

	require.Equal(t, first, second)
	require.Equal(t, 1, accessor.Fetches())
}

func TestLoadAnnouncementFetchFailure(t *testing.T) {
	accessor := &stubAccessor{err: errors.New("connection reset")}
	engine, tel := newTestEngine(t, accessor, immediateRetry(5))

	a := NewAnnouncement("Field trip", "Ms. Smith", "/announcement/1", "")
	message := engine.LoadAnnouncement(context.Background(), a)

	require.Equal(t, "Couldn't load message.", message)
	// fetch failures are not retried
	require.Equal(t, 1, accessor.Fetches())
	_, ok := a.Message()
	require.False(t, ok)
	require.Nil(t, a.Attachments())
	require.Len(t, tel.Find("broken", report_announcement_load), 1)

	// nothing was memoized so the next call tries again
	engine.LoadAnnouncement(context.Background(), a)
	require.Equal(t, 2, accessor.Fetches())
}

func TestLoadAnnouncementGivesUp(t *testing.T) {
	accessor := &stubAccessor{pages: []string{interstitialPage}}
	engine, tel := newTestEngine(t, accessor, immediateRetry(4))

	a := NewAnnouncement("Field trip", "Ms. Smith", "/announcement/1", "")
	message := engine.LoadAnnouncement(context.Background(), a)

	require.Equal(t, "Couldn't load message.", message)
	require.Equal(t, 4, accessor.Fetches())
	require.Len(t, tel.Find("warning", report_announcement_load), 1)
	_, ok := a.Message()
	require.False(t, ok)
}

func TestLoadAnnouncementCancelled(t *testing.T) {
	accessor := &stubAccessor{pages: []string{interstitialPage}}
	engine, _ := newTestEngine(t, accessor, RetryPolicy{InitialDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAnnouncement("Field trip", "Ms. Smith", "/announcement/1", "")
	message := engine.LoadAnnouncement(ctx, a)
	require.Equal(t, "Couldn't load message.", message)
}

func TestLoadAnnouncementSharesConcurrentLoads(t *testing.T) {
	accessor := newGatedAccessor(announcementPage)
	engine, _ := newTestEngine(t, accessor, immediateRetry(5))
	a := NewAnnouncement("Field trip", "Ms. Smith", "/announcement/1", "")

	messages := make([]string, 5)
	wg := sync.WaitGroup{}
	for i := range messages {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			messages[i] = engine.LoadAnnouncement(context.Background(), a)
		}(i)
	}

	<-accessor.started
	time.Sleep(50 * time.Millisecond)
	close(accessor.gate)
	wg.Wait()

	require.Equal(t, 1, accessor.Fetches())
	for _, message := range messages {
		require.Equal(t, messages[0], message)
	}
}

func TestAnnouncementSetLinkDiscardsStaleLoad(t *testing.T) {
	accessor := newGatedAccessor(announcementPage, movedAnnouncementPage)
	engine, tel := newTestEngine(t, accessor, immediateRetry(5))
	a := NewAnnouncement("Field trip", "Ms. Smith", "/announcement/1", "")

	done := make(chan string)
	go func() {
		done <- engine.LoadAnnouncement(context.Background(), a)
	}()

	<-accessor.started
	a.SetLink("/announcement/2")
	close(accessor.gate)
	message := <-done

	require.Equal(t, "The trip moved to Monday.", message)
	require.NotEmpty(t, tel.Find("debug", "stale announcement"))
	require.Equal(t, []string{"/announcement/1", "/announcement/2"}, accessor.links)

	stored, ok := a.Message()
	require.True(t, ok)
	require.Equal(t, message, stored)

	engine.LoadAnnouncement(context.Background(), a)
	require.Equal(t, 2, accessor.Fetches())
}

func TestLoadAnnouncementAsyncDeliversOnLoop(t *testing.T) {
	loop := mainloop.New(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	accessor := &stubAccessor{pages: []string{announcementPage}}
	engine := NewEngine(EngineOptions{
		Accessor: accessor,
		Retry:    immediateRetry(5),
		Loop:     loop,
	}, newMemoryTelemetry())

	a := NewAnnouncement("Field trip", "Ms. Smith", "/announcement/1", "")
	delivered := make(chan string, 1)
	engine.LoadAnnouncementAsync(ctx, a, func(message string) {
		delivered <- message
	})

	select {
	case message := <-delivered:
		require.Contains(t, message, "Hello class")
	case <-time.After(5 * time.Second):
		t.Fatal("completion was never delivered")
	}
}

func TestLoadAnnouncementAsyncDeliversAfterCancel(t *testing.T) {
	loop := mainloop.New(4)
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	go loop.Run(loopCtx)

	accessor := &stubAccessor{pages: []string{interstitialPage}}
	engine := NewEngine(EngineOptions{
		Accessor: accessor,
		Retry:    RetryPolicy{InitialDelay: time.Hour},
		Loop:     loop,
	}, newMemoryTelemetry())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAnnouncement("Field trip", "Ms. Smith", "/announcement/1", "")
	delivered := make(chan string, 1)
	engine.LoadAnnouncementAsync(ctx, a, func(message string) {
		delivered <- message
	})

	select {
	case message := <-delivered:
		require.Equal(t, "Couldn't load message.", message)
	case <-time.After(5 * time.Second):
		t.Fatal("completion was never delivered")
	}
}
