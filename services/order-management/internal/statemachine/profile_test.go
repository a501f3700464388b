package statemachine

import (
	"os"
	"path/filepath"
	"testing"

	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileByName(t *testing.T) {
	for _, name := range []string{"standard", "SIMPLIFIED", " extended ", ""} {
		m, err := ProfileByName(name)
		require.NoError(t, err, name)
		assert.NotNil(t, m)
	}

	m, err := ProfileByName("")
	require.NoError(t, err)
	assert.Equal(t, ProfileStandard, m.Name())

	_, err = ProfileByName("aggressive")
	assert.Error(t, err)
}

func TestParseProfile(t *testing.T) {
	raw := []byte(`
name: desk
initial: NEW
terminal: [CLOSED]
transitions:
  NEW: [LIVE, REJ]
  LIVE: [FILLED, CXL]
  FILLED: [CLOSED]
  CXL: [CLOSED]
  REJ: [CLOSED]
`)
	m, err := ParseProfile(raw)
	require.NoError(t, err)

	assert.Equal(t, "desk", m.Name())
	assert.True(t, m.IsValidTransition(orderv1.StateNew, orderv1.StateLive))
	assert.False(t, m.IsValidTransition(orderv1.StateLive, orderv1.StateRejected))
	assert.True(t, m.IsTerminal(orderv1.StateClosed))
}

func TestParseProfileRejectsInvalidFiles(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{name: "malformed yaml", raw: "initial: [NEW"},
		{name: "unknown initial", raw: "initial: OPEN"},
		{name: "unknown edge", raw: "initial: NEW\ntransitions:\n  NEW: [WORKING]\n"},
		{name: "terminal with edge", raw: "initial: NEW\nterminal: [CLOSED]\ntransitions:\n  CLOSED: [NEW]\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := ParseProfile([]byte(tc.raw))
			assert.Nil(t, m)
			assert.Error(t, err)
		})
	}
}

func TestLoadProfileFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("initial: NEW\ntransitions:\n  NEW: [LIVE]\n"), 0o600))

	m, err := LoadProfileFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", m.Name())
	assert.True(t, m.IsValidTransition(orderv1.StateNew, orderv1.StateLive))

	_, err = LoadProfileFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
