package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBuiltinProfiles(t *testing.T) {
	profile, err := ResolveProfile("clip", "")
	assert.NoError(t, err)
	assert.Equal(t, "clip", profile.Name)
	assert.NotEmpty(t, profile.PipelineID)
	assert.NotEmpty(t, profile.PrepExecutionID)
	assert.NotEmpty(t, profile.FileMap)

	profile, err = ResolveProfile("rna", "")
	assert.NoError(t, err)
	assert.Equal(t, "rna", profile.Name)
	assert.NotEmpty(t, profile.FileMap)

	// empty name defaults to clip
	profile, err = ResolveProfile("", "")
	assert.NoError(t, err)
	assert.Equal(t, "clip", profile.Name)
}

func TestResolveUnknownProfile(t *testing.T) {
	_, err := ResolveProfile("atac", "")
	assert.Error(t, err)
}

func TestLoadProfileFile(t *testing.T) {
	content := `name: custom
pipeline_id: "123"
pipeline_version: "2.0"
prep_execution_id: "456"
nextflow_version: "22.10.5"
paired: "false"
params:
  demultiplexed: "true"
file_map:
  fasta: genome.fa
`
	path := filepath.Join(t.TempDir(), "profile.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	profile, err := LoadProfile(path)
	assert.NoError(t, err)
	assert.Equal(t, "custom", profile.Name)
	assert.Equal(t, "123", profile.PipelineID)
	assert.Equal(t, "2.0", profile.PipelineVersion)
	assert.Equal(t, map[string]string{"demultiplexed": "true"}, profile.Params)
	assert.Equal(t, map[string]string{"fasta": "genome.fa"}, profile.FileMap)
}

func TestLoadProfileFileIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("name: broken\n"), 0644))

	_, err := LoadProfile(path)
	assert.Error(t, err)
}

func TestResolveProfileFileTakesPriority(t *testing.T) {
	content := `name: override
pipeline_id: "1"
pipeline_version: "1.0"
prep_execution_id: "2"
`
	path := filepath.Join(t.TempDir(), "profile.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	profile, err := ResolveProfile("clip", path)
	assert.NoError(t, err)
	assert.Equal(t, "override", profile.Name)
}
