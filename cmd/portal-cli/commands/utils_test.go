package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	require.Equal(t, "My essay & notes", preview("<p>My <b>essay</b> &amp; notes</p>", 60))
	require.Equal(t, "abc...", preview("<div>abcdef</div>", 3))
}
