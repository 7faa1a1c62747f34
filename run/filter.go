package run

import (
	"fmt"
	"path"

	"github.com/ulelab/flow-batch/client"
)

// FieldSampleName is the only metadata field the filter currently matches on.
const FieldSampleName = "sample_name"

// FilterSpec is a single client-side predicate: a glob pattern applied to a
// named sample field.  Matching is case-sensitive; `*` matches any run of
// characters including none and `?` matches exactly one.
type FilterSpec struct {
	Field   string
	Pattern string
}

// Filter returns the subset of samples whose field matches the spec's glob,
// preserving input order.  A nil spec is the identity.
func Filter(samples []client.Sample, spec *FilterSpec) ([]client.Sample, error) {
	if spec == nil {
		return samples, nil
	}
	if spec.Field != FieldSampleName {
		return nil, &InvalidFilterError{
			Reason: fmt.Sprintf("unsupported field %q (only %s can be filtered on)", spec.Field, FieldSampleName),
		}
	}

	matched := make([]client.Sample, 0, len(samples))
	for _, s := range samples {
		ok, err := path.Match(spec.Pattern, s.Name)
		if err != nil {
			return nil, &InvalidFilterError{
				Reason: fmt.Sprintf("malformed pattern %q", spec.Pattern),
			}
		}
		if ok {
			matched = append(matched, s)
		}
	}
	return matched, nil
}
