package keyring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSaveGetDelete(t *testing.T) {
	keyring.MockInit()

	assert.False(t, HasPassword("store-a", "alice"))

	require.NoError(t, SavePassword("store-a", "alice", "s3cr3t"))
	assert.True(t, HasPassword("store-a", "alice"))

	got, err := GetPassword("store-a", "alice")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", got)

	// Entries are scoped by store and login
	assert.False(t, HasPassword("store-b", "alice"))
	assert.False(t, HasPassword("store-a", "bob"))

	require.NoError(t, DeletePassword("store-a", "alice"))
	assert.False(t, HasPassword("store-a", "alice"))

	err = DeletePassword("store-a", "alice")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}
