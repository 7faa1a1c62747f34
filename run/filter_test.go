package run

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ulelab/flow-batch/client"
)

func namedSamples(names ...string) []client.Sample {
	samples := make([]client.Sample, len(names))
	for i, name := range names {
		samples[i] = client.Sample{ID: name, Name: name}
	}
	return samples
}

func TestFilterNilSpec(t *testing.T) {
	samples := namedSamples("A", "B")
	matched, err := Filter(samples, nil)
	assert.NoError(t, err)
	assert.Equal(t, samples, matched)
}

func TestFilterStarSuffix(t *testing.T) {
	samples := namedSamples("SampleA", "A", "Asample")
	matched, err := Filter(samples, &FilterSpec{Field: FieldSampleName, Pattern: "*A"})
	assert.NoError(t, err)
	assert.Equal(t, namedSamples("SampleA", "A"), matched)
}

func TestFilterQuestionMark(t *testing.T) {
	samples := namedSamples("Sample1", "Sampple1", "Smple1")
	matched, err := Filter(samples, &FilterSpec{Field: FieldSampleName, Pattern: "S?mple1"})
	assert.NoError(t, err)
	assert.Equal(t, namedSamples("Sample1"), matched)
}

func TestFilterPreservesOrder(t *testing.T) {
	samples := namedSamples("ctrl_2", "treat_1", "ctrl_1", "treat_2")
	matched, err := Filter(samples, &FilterSpec{Field: FieldSampleName, Pattern: "ctrl_*"})
	assert.NoError(t, err)
	assert.Equal(t, namedSamples("ctrl_2", "ctrl_1"), matched)
}

func TestFilterIdempotent(t *testing.T) {
	spec := &FilterSpec{Field: FieldSampleName, Pattern: "treat_*"}
	samples := namedSamples("treat_1", "ctrl_1", "treat_2")

	once, err := Filter(samples, spec)
	assert.NoError(t, err)
	twice, err := Filter(once, spec)
	assert.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestFilterNoMatches(t *testing.T) {
	matched, err := Filter(namedSamples("A", "B"), &FilterSpec{Field: FieldSampleName, Pattern: "Z*"})
	assert.NoError(t, err)
	assert.Empty(t, matched)
}

func TestFilterUnknownField(t *testing.T) {
	_, err := Filter(namedSamples("A"), &FilterSpec{Field: "organism", Pattern: "*"})
	var filterErr *InvalidFilterError
	assert.ErrorAs(t, err, &filterErr)
}

func TestFilterMalformedPattern(t *testing.T) {
	_, err := Filter(namedSamples("A"), &FilterSpec{Field: FieldSampleName, Pattern: "[unclosed"})
	var filterErr *InvalidFilterError
	assert.ErrorAs(t, err, &filterErr)
}

func TestFilterCaseSensitive(t *testing.T) {
	matched, err := Filter(namedSamples("sample1", "Sample1"), &FilterSpec{Field: FieldSampleName, Pattern: "Sample*"})
	assert.NoError(t, err)
	assert.Equal(t, namedSamples("Sample1"), matched)
}
