package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClosetGeneratesDecoysWithinDepthRanges(t *testing.T) {
	for depth, wantMin := range map[int]int{0: 3, 1: 1, 2: 0, 3: 0} {
		c, err := NewCloset(depth)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(c.Drawers), wantMin, "depth %d", depth)
	}
}

func TestCreateDrawerRejectsShortPassword(t *testing.T) {
	c, err := NewCloset(0)
	require.NoError(t, err)
	_, err = c.CreateDrawer(0, "a")
	assert.True(t, IsKind(err, KindPasswordTooShort))
}

func TestCreateDrawerRejectsDuplicatePassword(t *testing.T) {
	c, err := NewCloset(0)
	require.NoError(t, err)
	_, err = c.CreateDrawer(0, "correct horse")
	require.NoError(t, err)
	_, err = c.CreateDrawer(0, "correct horse")
	assert.True(t, IsKind(err, KindPasswordAlreadyUsed))
}

func TestOpenDrawerRoundTripsEntries(t *testing.T) {
	c, err := NewCloset(0)
	require.NoError(t, err)
	open, err := c.CreateDrawer(0, "correct horse battery")
	require.NoError(t, err)
	open.Entries = []Entry{{Name: "github", Value: "s3cr3t"}}
	require.NoError(t, c.CloseDrawer(open))

	reopened, err := c.OpenDrawer(0, "correct horse battery")
	require.NoError(t, err)
	require.NotNil(t, reopened)
	require.Len(t, reopened.Entries, 1)
	assert.Equal(t, "s3cr3t", reopened.Entries[0].Value)
}

// TestOpenDrawerWrongPasswordLooksLikeNoMatch checks invariant I4: a
// wrong passphrase against a real closet returns (nil, nil), the exact
// same shape as a passphrase that never matched anything.
func TestOpenDrawerWrongPasswordLooksLikeNoMatch(t *testing.T) {
	c, err := NewCloset(0)
	require.NoError(t, err)
	_, err = c.CreateDrawer(0, "correct horse battery")
	require.NoError(t, err)

	open, err := c.OpenDrawer(0, "wrong passphrase entirely")
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestCloseDrawerPreservesSlotCount(t *testing.T) {
	c, err := NewCloset(0)
	require.NoError(t, err)
	before := len(c.Drawers)
	open, err := c.CreateDrawer(0, "correct horse battery")
	require.NoError(t, err)
	require.Len(t, c.Drawers, before+1)
	require.NoError(t, c.CloseDrawer(open))
	assert.Len(t, c.Drawers, before+1)
}

func TestDeleteDrawerRemovesSlot(t *testing.T) {
	c, err := NewCloset(0)
	require.NoError(t, err)
	before := len(c.Drawers)
	open, err := c.CreateDrawer(0, "correct horse battery")
	require.NoError(t, err)
	require.NoError(t, c.DeleteDrawer(open))
	assert.Len(t, c.Drawers, before)

	reopened, err := c.OpenDrawer(0, "correct horse battery")
	require.NoError(t, err)
	assert.Nil(t, reopened)
}
