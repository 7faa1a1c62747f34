package upload

import (
	"context"

	"github.com/machinebox/graphql"
	"github.com/pkg/errors"
)

// updateSampleMutation patches a sample's metadata after upload.  Every field
// is nullable; variables the caller does not set are simply not provided, so
// existing values on the sample are left alone.
const updateSampleMutation = `mutation UpdateSample(
  $id: ID!,
  $comments: String,
  $condition: String,
  $ena: String,
  $experimentalMethod: String,
  $fivePrimeBarcodeSequence: String,
  $geo: String,
  $organisation: String,
  $organism: String,
  $pi: String,
  $pubmed: String,
  $purificationAgent: String,
  $purificationTarget: String,
  $purificationTargetText: String,
  $read1Primer: String,
  $read2Primer: String,
  $rnaSelectionMethod: String,
  $rtPrimer: String,
  $scientist: String,
  $sequencer: String,
  $source: String,
  $strandedness: String,
  $threePrimeAdapterName: String,
  $threePrimeAdapterSequence: String,
  $threePrimeBarcodeSequence: String,
  $umiBarcodeSequence: String,
  $umiSeparator: String
) {
  updateSample(
    id: $id,
    comments: $comments,
    condition: $condition,
    ena: $ena,
    experimentalMethod: $experimentalMethod,
    fivePrimeBarcodeSequence: $fivePrimeBarcodeSequence,
    geo: $geo,
    organisation: $organisation,
    organism: $organism,
    pi: $pi,
    pubmed: $pubmed,
    purificationAgent: $purificationAgent,
    purificationTarget: $purificationTarget,
    purificationTargetText: $purificationTargetText,
    read1Primer: $read1Primer,
    read2Primer: $read2Primer,
    rnaSelectionMethod: $rnaSelectionMethod,
    rtPrimer: $rtPrimer,
    scientist: $scientist,
    sequencer: $sequencer,
    source: $source,
    strandedness: $strandedness,
    threePrimeAdapterName: $threePrimeAdapterName,
    threePrimeAdapterSequence: $threePrimeAdapterSequence,
    threePrimeBarcodeSequence: $threePrimeBarcodeSequence,
    umiBarcodeSequence: $umiBarcodeSequence,
    umiSeparator: $umiSeparator
  ) {
    sample {
      id
      name
    }
  }
}`

// updateSampleResponse captures the fields selected by the mutation.
type updateSampleResponse struct {
	UpdateSample struct {
		Sample struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"sample"`
	} `json:"updateSample"`
}

// UpdateSample applies the supplied metadata fields to a sample.  Only fields
// present in the map are sent; empty values are never written.
func (u *Uploader) UpdateSample(ctx context.Context, sampleID string, fields map[string]string) error {
	request := graphql.NewRequest(updateSampleMutation)
	request.Var("id", sampleID)
	for field, value := range fields {
		if value == "" {
			continue
		}
		request.Var(field, value)
	}
	request.Header.Set("Authorization", "Bearer "+u.token)

	var resp updateSampleResponse
	if err := u.gql.Run(ctx, request, &resp); err != nil {
		return errors.Wrapf(err, "updateSample failed for %s", sampleID)
	}
	u.Logger.Debugf("Updated metadata for sample %s (%s)", resp.UpdateSample.Sample.ID, resp.UpdateSample.Sample.Name)
	return nil
}
