package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/pkg/errors"
)

func TestParseID_Valid(t *testing.T) {
	tests := []struct {
		raw  string
		want ID
	}{
		{"6LU7", "6LU7"},
		{"1abc", "1ABC"},
		{"  4hhb ", "4HHB"},
		{"9XYZ", "9XYZ"},
	}
	for _, tt := range tests {
		id, err := ParseID(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, id)
	}
}

func TestParseID_Invalid(t *testing.T) {
	tests := []string{
		"",
		"6LU",
		"6LU77",
		"6LU&",
		"6 U7",
		"много",
	}
	for _, raw := range tests {
		_, err := ParseID(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.IsCode(err, errors.CodePDBInvalidID), raw)
	}
}

func TestID_Filename(t *testing.T) {
	assert.Equal(t, "6LU7.pdb", MustParseID("6lu7").Filename())
}

func TestMustParseID_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParseID("nope!") })
}
