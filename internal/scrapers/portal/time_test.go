package portal

import (
	"testing"
	"time"

	"coursesync-backend/internal/components/chrono"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	loc := chrono.Location()
	cases := []struct {
		raw    string
		expect time.Time
	}{
		{raw: "Sep 5, 2017 11:55 pm", expect: time.Date(2017, time.September, 5, 23, 55, 0, 0, loc)},
		{raw: "  Sep 05, 2017   9:03 AM ", expect: time.Date(2017, time.September, 5, 9, 3, 0, 0, loc)},
		{raw: "January 12, 2018 1:00 p.m.", expect: time.Date(2018, time.January, 12, 13, 0, 0, 0, loc)},
		{raw: "Feb 1, 2019", expect: time.Date(2019, time.February, 1, 0, 0, 0, 0, loc)},
	}
	for _, test := range cases {
		parsed := ParseDate(test.raw)
		require.NotNil(t, parsed, test.raw)
		require.True(t, test.expect.Equal(*parsed), "%s: expected %s got %s", test.raw, test.expect, parsed)
	}

	require.Nil(t, ParseDate(""))
	require.Nil(t, ParseDate("yesterday"))
}
