package portal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitRegions(t *testing.T) {
	t.Run("priority", func(t *testing.T) {
		raw := `<div>instructions</div><p>Original submission text</p><h5>Submitted Attachments</h5><a>file</a>`
		regions := SplitRegions(raw)
		require.Equal(t, MarkerSubmittedAttachments, regions.Marker)
		require.Equal(t, `<div>instructions</div><p>Original submission text</p>`, regions.Instructions)
		require.NotNil(t, regions.Submission)
		require.Equal(t, `<h5>Submitted Attachments</h5><a>file</a>`, *regions.Submission)
	})

	t.Run("first occurrence", func(t *testing.T) {
		raw := `before instructor's comments middle instructor's comments after`
		regions := SplitRegions(raw)
		require.Equal(t, MarkerInstructorComments, regions.Marker)
		require.Equal(t, "before ", regions.Instructions)
		require.Equal(t, "instructor's comments middle instructor's comments after", *regions.Submission)
	})

	t.Run("submission form", func(t *testing.T) {
		raw := `<div class="textPanel">do it</div><form id="addSubmissionForm"></form>`
		regions := SplitRegions(raw)
		require.Equal(t, MarkerAddSubmissionForm, regions.Marker)
		require.Equal(t, `<div class="textPanel">do it</div><form `, regions.Instructions)
	})

	t.Run("no marker", func(t *testing.T) {
		raw := `<div class="textPanel">only instructions</div>`
		regions := SplitRegions(raw)
		require.Equal(t, raw, regions.Instructions)
		require.Nil(t, regions.Submission)
		require.Empty(t, regions.Marker)
	})
}
