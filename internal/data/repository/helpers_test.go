package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tour-booking/pkg/utils"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.ParseInLocation(utils.DateTimeLayout, s, time.UTC)
	require.NoError(t, err)
	return v
}
