package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bada/internal/task"
)

func TestResolveTask(t *testing.T) {
	tasks := []task.Task{
		{ID: "abc123", Name: "one"},
		{ID: "abd456", Name: "two"},
		{ID: "abc", Name: "three"},
	}

	tests := []struct {
		name    string
		ref     string
		want    string
		wantErr any
	}{
		{name: "exact id wins over prefix", ref: "abc", want: "three"},
		{name: "unique prefix", ref: "abd", want: "two"},
		{name: "ambiguous prefix", ref: "ab", wantErr: &AmbiguousIDError{}},
		{name: "no match", ref: "zz", wantErr: &task.NotFoundError{}},
		{name: "empty ref", ref: "", wantErr: &task.NotFoundError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTask(tasks, tt.ref)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.As(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestResolveCategory(t *testing.T) {
	cats := []task.Category{{ID: "c-1", Name: "Home"}, {ID: "c-2", Name: "Work"}}

	got, err := resolveCategory(cats, "work")
	require.NoError(t, err)
	assert.Equal(t, "c-2", got.ID)

	got, err = resolveCategory(cats, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Home", got.Name)

	_, err = resolveCategory(cats, "c-")
	var amb AmbiguousIDError
	require.True(t, errors.As(err, &amb))
	assert.Equal(t, []string{"c-1", "c-2"}, amb.Matches)

	_, err = resolveCategory(cats, "Garden")
	var nf task.CategoryNotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestRemainingCategoryIDs(t *testing.T) {
	tk := task.Task{Categories: []task.Category{{ID: "home"}, {ID: "work"}, {ID: "errands"}}}

	assert.Equal(t, []string{"home", "errands"}, remainingCategoryIDs(tk, "work"))
	assert.Equal(t, []string{"home", "work", "errands"}, remainingCategoryIDs(tk, "missing"))
	assert.Empty(t, remainingCategoryIDs(task.Task{Categories: []task.Category{{ID: "home"}}}, "home"))
}
