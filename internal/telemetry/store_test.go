package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FlipSentinel/internal/model"
)

func TestStore_UpsertHeartbeat(t *testing.T) {
	s := NewStore()

	session, err := s.UpsertHeartbeat(model.Heartbeat{AccountHash: "acc-1", TS: 100, PluginVersion: "1.2"})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", session.AccountHash)
	assert.Equal(t, int64(100), session.LastSeenTS)
	require.NotNil(t, session.Heartbeat)
	assert.Equal(t, "1.2", session.Heartbeat.PluginVersion)

	// A later heartbeat replaces the old one and bumps last-seen.
	session, err = s.UpsertHeartbeat(model.Heartbeat{AccountHash: "acc-1", TS: 200})
	require.NoError(t, err)
	assert.Equal(t, int64(200), session.LastSeenTS)

	got, ok := s.Session("acc-1")
	require.True(t, ok)
	assert.Equal(t, int64(200), got.LastSeenTS)
}

func TestStore_RejectsEmptyAccount(t *testing.T) {
	s := NewStore()

	_, err := s.UpsertHeartbeat(model.Heartbeat{AccountHash: "   ", TS: 1})
	assert.ErrorIs(t, err, ErrNoAccount)

	_, err = s.UpsertWallet(model.Wallet{TS: 1})
	assert.ErrorIs(t, err, ErrNoAccount)

	_, err = s.UpsertOffers("", 1, nil)
	assert.ErrorIs(t, err, ErrNoAccount)
}

func TestStore_WalletAndHeartbeatCoexist(t *testing.T) {
	s := NewStore()

	_, err := s.UpsertHeartbeat(model.Heartbeat{AccountHash: "acc-1", TS: 100})
	require.NoError(t, err)

	coins := int64(1_500_000)
	session, err := s.UpsertWallet(model.Wallet{AccountHash: "acc-1", TS: 150, Coins: &coins, CashTotal: 1_500_000})
	require.NoError(t, err)

	assert.Equal(t, int64(150), session.LastSeenTS)
	require.NotNil(t, session.Heartbeat)
	require.NotNil(t, session.Wallet)
	assert.Equal(t, int64(1_500_000), session.Wallet.CashTotal)
}

func TestStore_UpsertOffersStampsAndReplaces(t *testing.T) {
	s := NewStore()

	session, err := s.UpsertOffers("acc-1", 300, []model.Offer{
		{Slot: 0, ItemID: 2, Side: "buy"},
		{Slot: 1, ItemID: 6, Side: "sell"},
	})
	require.NoError(t, err)
	require.Len(t, session.Offers, 2)
	for _, o := range session.Offers {
		assert.Equal(t, "acc-1", o.AccountHash)
		assert.Equal(t, int64(300), o.TS)
	}

	// Wholesale replacement: a shorter report discards stale slots.
	session, err = s.UpsertOffers("acc-1", 400, []model.Offer{{Slot: 0, ItemID: 9}})
	require.NoError(t, err)
	require.Len(t, session.Offers, 1)
	assert.Equal(t, 9, session.Offers[0].ItemID)
	assert.Equal(t, int64(400), session.LastSeenTS)
}

func TestStore_SnapshotSortedAndStatus(t *testing.T) {
	s := NewStore()
	for _, acc := range []string{"zeta", "alpha", "mid"} {
		_, err := s.UpsertHeartbeat(model.Heartbeat{AccountHash: acc, TS: int64(len(acc))})
		require.NoError(t, err)
	}

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "alpha", snap[0].AccountHash)
	assert.Equal(t, "mid", snap[1].AccountHash)
	assert.Equal(t, "zeta", snap[2].AccountHash)

	st := s.Status()
	assert.Equal(t, 3, st.Sessions)
	assert.Equal(t, int64(5), st.NewestTS)
}

func TestStore_SessionUnknownAccount(t *testing.T) {
	s := NewStore()
	_, ok := s.Session("missing")
	assert.False(t, ok)
}
