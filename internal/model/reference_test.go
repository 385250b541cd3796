package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnmarshal(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
	}{
		{"bare id string", `"user-1"`, "user-1"},
		{"populated object", `{"id":"user-1","name":"Ana"}`, "user-1"},
		{"legacy object key", `{"_id":"user-1","name":"Ana"}`, "user-1"},
		{"id wins over legacy", `{"id":"user-1","_id":"user-2"}`, "user-1"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref Ref
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ref))
			assert.Equal(t, tt.wantID, ref.ID())
		})
	}
}

func TestRefIdentityComparison(t *testing.T) {
	var bare, populated Ref
	require.NoError(t, json.Unmarshal([]byte(`"user-1"`), &bare))
	require.NoError(t, json.Unmarshal([]byte(`{"id":"user-1"}`), &populated))

	assert.True(t, bare.Is("user-1"))
	assert.True(t, populated.Is("user-1"))
	assert.False(t, bare.Is("user-2"))

	var zero Ref
	assert.True(t, zero.IsZero())
	assert.False(t, zero.Is(""))
}

func TestRefMarshal(t *testing.T) {
	out, err := json.Marshal(NewRef("user-1"))
	require.NoError(t, err)
	assert.Equal(t, `"user-1"`, string(out))

	out, err = json.Marshal(Ref{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}

func TestJobHasApplicant(t *testing.T) {
	job := &Job{Applicants: []Ref{NewRef("w1"), NewRef("w2")}}

	assert.True(t, job.HasApplicant("w1"))
	assert.False(t, job.HasApplicant("w3"))
}
