package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection_Opposite(t *testing.T) {
	testCases := map[Direction]Direction{
		DirNone:  DirNone,
		DirLeft:  DirRight,
		DirRight: DirLeft,
		DirUp:    DirDown,
		DirDown:  DirUp,
	}
	for d, want := range testCases {
		assert.Equal(t, want, d.Opposite(), d.String())
	}
}

func TestDirection_Text(t *testing.T) {
	assert.Equal(t, DirUp, ParseDirection(" UP "))
	assert.Equal(t, DirNone, ParseDirection("sideways"))

	b, err := json.Marshal(State{ID: "p", Direction: DirLeft})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"p","direction":"left"}`, string(b))

	var st State
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p","direction":"down","position":{"x":1,"y":2}}`), &st))
	assert.Equal(t, DirDown, st.Direction)
	require.NotNil(t, st.Position)
	assert.Equal(t, Vec{X: 1, Y: 2}, *st.Position)

	_, err = Direction(9).MarshalText()
	assert.Error(t, err)
}
