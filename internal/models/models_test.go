package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePost() JobPost {
	return JobPost{
		ID: 7,
		JobPostFormData: JobPostFormData{
			Title:          "Engineer",
			Department:     "Eng",
			EmploymentType: FullTime,
			Description:    "<p>Build <strong>things</strong></p>",
			Location:       "Remote",
			Deadline:       "2025-01-01",
		},
		CreatedAt: time.Date(2024, 11, 3, 9, 30, 0, 125000000, time.UTC),
	}
}

func TestJobPostWireShape(t *testing.T) {
	raw, err := json.Marshal(samplePost())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Len(t, fields, 8)
	assert.Equal(t, float64(7), fields["id"])
	assert.Equal(t, "Full-time", fields["employmentType"])
	assert.Equal(t, "2025-01-01", fields["deadline"])
	assert.Equal(t, "2024-11-03T09:30:00.125Z", fields["createdAt"])
}

func TestJobPostRoundTrip(t *testing.T) {
	post := samplePost()
	raw, err := json.Marshal(post)
	require.NoError(t, err)

	var decoded JobPost
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, post, decoded)
}

func TestEmploymentTypeValid(t *testing.T) {
	for _, v := range EmploymentTypes {
		assert.True(t, v.Valid(), v)
	}
	assert.False(t, EmploymentType("Contract").Valid())
	assert.False(t, EmploymentType("").Valid())
}
