package task

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	limits := Limits{MaxNameLength: 5, MaxDescriptionLength: 8}

	tests := []struct {
		name        string
		taskName    string
		description string
		wantErr     error
	}{
		{"valid", "milk", "", nil},
		{"name at limit", "abcde", "12345678", nil},
		{"empty name", "", "", EmptyNameError{}},
		{"name too long", "abcdef", "", NameTooLongError{Max: 5, Got: 6}},
		{"description too long", "ok", "123456789", DescriptionTooLongError{Max: 8, Got: 9}},
		{"runes not bytes", "ééééé", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.taskName, tt.description, limits)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestValidateZeroLimitsDisableChecks(t *testing.T) {
	assert.NoError(t, Validate(strings.Repeat("x", 500), strings.Repeat("y", 5000), Limits{}))
}

func TestNameTooLongErrorAs(t *testing.T) {
	err := Validate(strings.Repeat("x", 41), "", DefaultLimits())
	var tooLong NameTooLongError
	require.True(t, errors.As(err, &tooLong))
	assert.Equal(t, 40, tooLong.Max)
	assert.Equal(t, "name should be less than or equal to 40 characters (got 41)", err.Error())
}

func TestCategoryApply(t *testing.T) {
	name := "Errands"
	emoji := "🛒"
	c := Category{ID: "c1", Name: "Shopping", Color: "#fff"}

	got := c.Apply(CategoryPatch{ID: "c1", Name: &name, Emoji: &emoji})
	assert.Equal(t, Category{ID: "c1", Name: "Errands", Color: "#fff", Emoji: "🛒"}, got)

	other := c.Apply(CategoryPatch{ID: "c2", Name: &name})
	assert.Equal(t, c, other, "patch for another id must not apply")
}

func TestFindPriority(t *testing.T) {
	p, ok := FindPriority(DefaultPriorities(), "high")
	require.True(t, ok)
	assert.Equal(t, "High", p.Label)

	_, ok = FindPriority(DefaultPriorities(), "low")
	assert.False(t, ok)
}

func TestPriorityID(t *testing.T) {
	assert.Equal(t, "", Task{}.PriorityID())
	assert.Equal(t, "medium", Task{Priority: &Priority{ID: "medium"}}.PriorityID())
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		id := NewID()
		require.Len(t, id, 36)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
