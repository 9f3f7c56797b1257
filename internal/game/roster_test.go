package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"alex", "Alex"},
		{"  ALEX  ", "Alex"},
		{"mary   jane", "Mary Jane"},
		{"mcDONALD", "Mcdonald"},
		{"\tphil\ttaylor\n", "Phil Taylor"},
		{"élodie", "Élodie"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.raw))
		})
	}
}

func TestRosterAddPlayer(t *testing.T) {
	r := NewRoster(&sequentialIDs{prefix: "p"})

	alex := r.AddPlayer("  alex ")
	require.NotNil(t, alex)
	assert.Equal(t, "p1", alex.ID)
	assert.Equal(t, "Alex", alex.Name)
	assert.Equal(t, 0, alex.Score)
	assert.NotNil(t, alex.ThrowHistory)
	assert.Empty(t, alex.ThrowHistory)

	assert.Nil(t, r.AddPlayer("   "), "blank names are rejected")
	assert.Equal(t, 1, r.Len())

	// Duplicate names are allowed and get distinct IDs
	twin := r.AddPlayer("ALEX")
	require.NotNil(t, twin)
	assert.Equal(t, "p2", twin.ID)
	assert.Equal(t, 2, r.Len())
}

func TestRosterDefaultIDs(t *testing.T) {
	r := NewRoster(nil)
	a := r.AddPlayer("a")
	b := r.AddPlayer("b")
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestRosterRemovePlayer(t *testing.T) {
	r := NewRoster(&sequentialIDs{prefix: "p"})
	r.AddPlayer("alex")
	r.AddPlayer("bea")
	r.AddPlayer("cal")

	assert.True(t, r.RemovePlayer("p2"))
	assert.False(t, r.RemovePlayer("p2"))
	assert.False(t, r.RemovePlayer("nobody"))

	players := r.Players()
	require.Len(t, players, 2)
	assert.Equal(t, "Alex", players[0].Name)
	assert.Equal(t, "Cal", players[1].Name)
}

func TestRosterRestore(t *testing.T) {
	r := NewRoster(&sequentialIDs{prefix: "new"})
	r.Restore([]Player{
		{ID: "kept", Name: "Alex", Score: 120},
		{ID: "  ", Name: "Bea", Score: 40},
	})

	require.Equal(t, 2, r.Len())
	assert.Equal(t, "kept", r.At(0).ID)
	assert.Equal(t, "new1", r.At(1).ID)
	assert.NotNil(t, r.At(1).ThrowHistory)
	assert.Nil(t, r.At(2))
	assert.Nil(t, r.At(-1))
}

func TestRosterRestoreDuplicateIDs(t *testing.T) {
	r := NewRoster(&sequentialIDs{prefix: "new"})
	r.Restore([]Player{
		{ID: "x", Name: "Alex"},
		{ID: "x", Name: "Sam"},
		{ID: "new1", Name: "Bea"},
		{ID: "", Name: "Cat"},
	})

	require.Equal(t, 4, r.Len())
	assert.Equal(t, "x", r.At(0).ID)
	assert.Equal(t, "new1", r.At(1).ID)
	assert.Equal(t, "new2", r.At(2).ID, "saved id already taken by a regenerated one")
	assert.Equal(t, "new3", r.At(3).ID)
	assert.Equal(t, "Alex", r.Find("x").Name)
}

func TestRosterFind(t *testing.T) {
	r := NewRoster(&sequentialIDs{prefix: "p"})
	r.AddPlayer("mary jane")

	require.NotNil(t, r.Find("p1"))
	assert.Nil(t, r.Find("p9"))

	byName := r.FindByName("MARY  jane")
	require.NotNil(t, byName)
	assert.Equal(t, "p1", byName.ID)
	assert.Nil(t, r.FindByName("mary"))
}

func TestRosterPlayersAreCopies(t *testing.T) {
	r := NewRoster(&sequentialIDs{prefix: "p"})
	r.AddPlayer("alex")

	players := r.Players()
	players[0].Score = 999
	players[0].ThrowHistory = append(players[0].ThrowHistory, PlayerThrow{Throw: s(1), Round: 1})

	assert.Equal(t, 0, r.At(0).Score)
	assert.Empty(t, r.At(0).ThrowHistory)
}
