package notify

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCustomIDRoundTrip(t *testing.T) {
	id := uuid.New()

	cases := []struct {
		customID string
		action   string
	}{
		{ApproveCustomID(id), "approve"},
		{RejectCustomID(id), "reject"},
		{DetailsCustomID(id), "details"},
	}
	for _, tc := range cases {
		action, parsed, ok := ParseReviewCustomID(tc.customID)
		require.True(t, ok, tc.customID)
		assert.Equal(t, tc.action, action)
		assert.Equal(t, id, parsed)
	}
}

func TestParseReviewCustomIDRejectsForeignIDs(t *testing.T) {
	for _, customID := range []string{
		"",
		"approve",
		"approve_not-a-uuid",
		"promote_" + uuid.NewString(),
		"reject_reason_" + uuid.NewString(),
	} {
		_, _, ok := ParseReviewCustomID(customID)
		assert.False(t, ok, customID)
	}
}
