package remote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Will-L07/scheduler/internal/models"
)

func TestMemoryPullMissingUser(t *testing.T) {
	c := NewMemory().Client("laptop")
	snap, found, err := c.Pull(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, snap.Empty())
}

func TestMemoryPushPullRoundTrip(t *testing.T) {
	ctx := context.Background()
	hub := NewMemory()
	laptop := hub.Client("laptop")

	settings := models.DefaultSettings()
	err := laptop.Push(ctx, "u1", Snapshot{
		Schedules: []models.Schedule{{ID: "s1", Name: "Revision", Entries: []models.Entry{
			models.NewDatedEntry("e1", "2026-02-09", "AS FM", "CP1", "1h"),
		}}},
		Notes:    []models.Note{},
		Settings: &settings,
	})
	require.NoError(t, err)

	snap, found, err := hub.Client("phone").Pull(ctx, "u1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, snap.Schedules, 1)
	assert.Equal(t, "e1", snap.Schedules[0].Entries[0].ID)
	assert.NotNil(t, snap.Notes)
	assert.Equal(t, settings, *snap.Settings)

	// the other user sees nothing
	_, found, err = laptop.Pull(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryPushSkipsNilDocuments(t *testing.T) {
	ctx := context.Background()
	c := NewMemory().Client("laptop")

	require.NoError(t, c.Push(ctx, "u1", Snapshot{Notes: []models.Note{{ID: "n1"}}}))
	require.NoError(t, c.Push(ctx, "u1", Snapshot{Schedules: []models.Schedule{}}))

	snap, found, err := c.Pull(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, snap.Notes, 1)
	assert.NotNil(t, snap.Schedules)
	assert.Nil(t, snap.Settings)
}

func TestMemorySubscribeIgnoresOwnWrites(t *testing.T) {
	ctx := context.Background()
	hub := NewMemory()
	laptop := hub.Client("laptop")
	phone := hub.Client("phone")

	var got []Snapshot
	unsubscribe, err := laptop.Subscribe(ctx, "u1", func(s Snapshot) { got = append(got, s) })
	require.NoError(t, err)

	require.NoError(t, laptop.Push(ctx, "u1", Snapshot{Schedules: []models.Schedule{}}))
	assert.Empty(t, got)

	require.NoError(t, phone.Push(ctx, "u2", Snapshot{Schedules: []models.Schedule{}}))
	assert.Empty(t, got)

	require.NoError(t, phone.Push(ctx, "u1", Snapshot{Schedules: []models.Schedule{{ID: "s1"}}}))
	require.Len(t, got, 1)
	assert.Equal(t, "s1", got[0].Schedules[0].ID)

	unsubscribe()
	unsubscribe()
	require.NoError(t, phone.Push(ctx, "u1", Snapshot{Schedules: []models.Schedule{}}))
	assert.Len(t, got, 1)
}

func TestMemoryFailWith(t *testing.T) {
	ctx := context.Background()
	hub := NewMemory()
	c := hub.Client("laptop")
	boom := errors.New("network down")

	hub.FailWith(boom)
	assert.ErrorIs(t, c.Push(ctx, "u1", Snapshot{Schedules: []models.Schedule{}}), boom)
	_, _, err := c.Pull(ctx, "u1")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, hub.Pushes())

	hub.FailWith(nil)
	assert.NoError(t, c.Push(ctx, "u1", Snapshot{Schedules: []models.Schedule{}}))
	assert.Equal(t, 1, hub.Pushes())
}

func TestMemoryClosedClient(t *testing.T) {
	c := NewMemory().Client("laptop")
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Push(context.Background(), "u1", Snapshot{}), ErrClosed)
}
