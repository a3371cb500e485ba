package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phazelsound/client/internal/model"
)

func TestNewStoreIsAnonymous(t *testing.T) {
	s := New()
	assert.Equal(t, Anonymous, s.State())
	assert.Equal(t, model.Session{}, s.Snapshot())
}

func TestSetSessionOverwritesRegardlessOfPriorState(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Store)
	}{
		{name: "from-anonymous", setup: func(*Store) {}},
		{name: "from-authenticated", setup: func(s *Store) { s.SetSession("old-a", "old-r") }},
		{name: "from-cleared", setup: func(s *Store) { s.SetSession("old-a", "old-r"); s.Clear() }},
		{name: "with-user", setup: func(s *Store) { s.SetUser(model.User{Email: "an@phazel.vn"}) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			tt.setup(s)

			s.SetSession("access", "refresh")
			snap := s.Snapshot()
			assert.True(t, snap.IsAuthenticated)
			assert.Equal(t, "access", snap.AccessToken)
			assert.Equal(t, "refresh", snap.RefreshToken)
			assert.Equal(t, Authenticated, s.State())
		})
	}
}

func TestSetSessionThenClear(t *testing.T) {
	sequences := [][][2]string{
		{{"a1", "r1"}},
		{{"a1", "r1"}, {"a2", "r2"}},
		{{"a1", "r1"}, {"a2", "r2"}, {"a3", "r3"}},
	}

	for _, seq := range sequences {
		s := New()
		for _, tokens := range seq {
			s.SetSession(tokens[0], tokens[1])
		}
		s.Clear()

		snap := s.Snapshot()
		assert.False(t, snap.IsAuthenticated)
		assert.Empty(t, snap.AccessToken)
		assert.Empty(t, snap.RefreshToken)
		assert.Nil(t, snap.User)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	once := New()
	once.SetSession("a", "r")
	once.SetUser(model.User{Email: "an@phazel.vn"})
	once.Clear()

	twice := New()
	twice.SetSession("a", "r")
	twice.SetUser(model.User{Email: "an@phazel.vn"})
	twice.Clear()
	twice.Clear()

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestSetUserKeepsTokens(t *testing.T) {
	s := New()
	s.SetSession("a", "r")
	s.SetUser(model.User{ID: "u-1", Email: "an@phazel.vn", Role: model.RoleUser})

	snap := s.Snapshot()
	require.NotNil(t, snap.User)
	assert.Equal(t, "u-1", snap.User.ID)
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "a", snap.AccessToken)

	// 익명 상태에서도 user만 설정 가능 (토큰/플래그는 그대로)
	anon := New()
	anon.SetUser(model.User{Email: "x@y.z"})
	assert.False(t, anon.IsAuthenticated())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := New()
	s.SetUser(model.User{Email: "an@phazel.vn"})

	snap := s.Snapshot()
	snap.User.Email = "changed@phazel.vn"

	assert.Equal(t, "an@phazel.vn", s.Snapshot().User.Email)
}

func TestSubscribe(t *testing.T) {
	s := New()
	var seen []bool
	unsubscribe := s.Subscribe(func(snap model.Session) {
		seen = append(seen, snap.IsAuthenticated)
	})

	s.SetSession("a", "r")
	s.Clear()
	unsubscribe()
	unsubscribe()
	s.SetSession("a", "r")

	assert.Equal(t, []bool{true, false}, seen)
}

func TestListenerMayReadStore(t *testing.T) {
	s := New()
	var state State
	s.Subscribe(func(model.Session) {
		state = s.State()
	})

	s.SetSession("a", "r")
	assert.Equal(t, Authenticated, state)
}
