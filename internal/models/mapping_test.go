package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetEntriesRoundTripPreservesOrder(t *testing.T) {
	m := &Mapping{}
	in := []MappingEntry{
		{Column: "First", Placeholder: "name"},
		{Column: "Second", Placeholder: "name"},
		{Column: "Order", Placeholder: "order_id"},
	}
	require.NoError(t, m.SetEntries(in))

	out, err := m.Entries()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSetEntriesTrims(t *testing.T) {
	m := &Mapping{}
	require.NoError(t, m.SetEntries([]MappingEntry{{Column: " Name ", Placeholder: "\tname "}}))

	out, err := m.Entries()
	require.NoError(t, err)
	assert.Equal(t, []MappingEntry{{Column: "Name", Placeholder: "name"}}, out)
}

func TestSetEntriesRejectsEmptyNames(t *testing.T) {
	m := &Mapping{}

	err := m.SetEntries([]MappingEntry{{Column: "  ", Placeholder: "name"}})
	assert.ErrorContains(t, err, "column name")

	err = m.SetEntries([]MappingEntry{{Column: "Name", Placeholder: ""}})
	assert.ErrorContains(t, err, "placeholder name")
}

func TestEntriesEmptyMapping(t *testing.T) {
	m := &Mapping{}
	out, err := m.Entries()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestJobProgress(t *testing.T) {
	j := &Job{}
	assert.Equal(t, 0.0, j.ProgressPercentage())

	j.TotalRows = 4
	j.IncrementProcessed()
	j.IncrementProcessed()
	j.IncrementFailed()
	assert.Equal(t, 50.0, j.ProgressPercentage())
	assert.Equal(t, 2, j.ProcessedRows)
	assert.Equal(t, 1, j.FailedRows)
}

func TestJobSetError(t *testing.T) {
	j := &Job{Status: JobStatusProcessing}
	j.SetError("  something broke  ")

	assert.Equal(t, JobStatusFailed, j.Status)
	assert.Equal(t, "something broke", j.ErrorMessage)
	assert.True(t, j.IsComplete())
}
