package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/machinebox/graphql"
	"github.com/pkg/errors"
	"github.com/ulelab/flow-batch/config"
)

// Uploader pushes sample read files to Flow in chunks and patches the
// sample's metadata afterwards through the GraphQL API.
type Uploader struct {
	config.Config
	base      string
	token     string
	http      *http.Client
	gql       *graphql.Client
	chunkSize int
}

// NewUploader creates an uploader sharing an authenticated session's token.
func NewUploader(cfg *config.Config, token string) *Uploader {
	httpClient := &http.Client{Timeout: time.Second * time.Duration(cfg.Environment.SubmitTimeoutSec)}
	return &Uploader{
		Config: config.Config{
			Logger:      cfg.Logger,
			Environment: cfg.Environment,
		},
		base:      cfg.Environment.APIBase,
		token:     token,
		http:      httpClient,
		gql:       graphql.NewClient(cfg.Environment.APIBase+"/graphql", graphql.WithHTTPClient(httpClient)),
		chunkSize: cfg.Environment.UploadChunkSizeBytes,
	}
}

// uploadResponse is the upload endpoint's answer to each chunk.
type uploadResponse struct {
	DataID   string `json:"data_id"`
	SampleID string `json:"sample_id"`
}

// UploadSample streams a row's read files to the upload endpoint chunk by
// chunk and returns the created sample's ID.  When the row carries metadata,
// the sample is patched through GraphQL after the upload completes.
func (u *Uploader) UploadSample(ctx context.Context, projectID string, row Row, baseDir string) (string, error) {
	reads := []string{row.Read1}
	if row.Read2 != "" {
		reads = append(reads, row.Read2)
	}

	var dataID, sampleID string
	var previousData []string

	for readIdx, read := range reads {
		path := read
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		info, err := os.Stat(path)
		if err != nil {
			return "", errors.Wrapf(err, "failed to stat read file %s", path)
		}
		chunks := int((info.Size() + int64(u.chunkSize) - 1) / int64(u.chunkSize))
		if chunks == 0 {
			return "", errors.Errorf("read file %s is empty", path)
		}

		f, err := os.Open(path)
		if err != nil {
			return "", errors.Wrapf(err, "failed to open read file %s", path)
		}

		for chunkNum := 0; chunkNum < chunks; chunkNum++ {
			chunk := make([]byte, u.chunkSize)
			n, err := io.ReadFull(f, chunk)
			if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
				f.Close()
				return "", errors.Wrapf(err, "failed to read chunk %d of %s", chunkNum, path)
			}

			isLast := chunkNum == chunks-1
			isLastSample := isLast && readIdx == len(reads)-1

			resp, err := u.sendChunk(ctx, chunkRequest{
				filename:         filepath.Base(path),
				sampleName:       row.Name,
				projectID:        projectID,
				dataID:           dataID,
				previousData:     previousData,
				expectedFileSize: int64(chunkNum) * int64(u.chunkSize),
				isLast:           isLast,
				isLastSample:     isLastSample,
				blob:             chunk[:n],
			})
			if err != nil {
				f.Close()
				return "", errors.Wrapf(err, "failed to upload chunk %d of %s", chunkNum, path)
			}
			dataID = resp.DataID
			sampleID = resp.SampleID
		}
		f.Close()

		// each read finishes as its own data record
		previousData = append(previousData, dataID)
		dataID = ""
	}

	if len(row.Metadata) > 0 {
		if err := u.UpdateSample(ctx, sampleID, row.Metadata); err != nil {
			return sampleID, errors.Wrapf(err, "uploaded sample %s but failed to update its metadata", sampleID)
		}
	}
	return sampleID, nil
}

// chunkRequest carries everything the upload endpoint wants with one blob.
type chunkRequest struct {
	filename         string
	sampleName       string
	projectID        string
	dataID           string
	previousData     []string
	expectedFileSize int64
	isLast           bool
	isLastSample     bool
	blob             []byte
}

// sendChunk posts one multipart chunk to the upload endpoint.
func (u *Uploader) sendChunk(ctx context.Context, chunk chunkRequest) (*uploadResponse, error) {
	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fields := map[string]string{
		"filename":           chunk.filename,
		"sample_name":        chunk.sampleName,
		"project":            chunk.projectID,
		"is_last":            strconv.FormatBool(chunk.isLast),
		"is_last_sample":     strconv.FormatBool(chunk.isLastSample),
		"expected_file_size": strconv.FormatInt(chunk.expectedFileSize, 10),
	}
	if chunk.dataID != "" {
		fields["data"] = chunk.dataID
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return nil, errors.Wrap(err, "failed to write form field")
		}
	}
	for _, previous := range chunk.previousData {
		if err := form.WriteField("previous_data", previous); err != nil {
			return nil, errors.Wrap(err, "failed to write form field")
		}
	}

	part, err := form.CreateFormFile("blob", chunk.filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create blob part")
	}
	if _, err := part.Write(chunk.blob); err != nil {
		return nil, errors.Wrap(err, "failed to write blob")
	}
	if err := form.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finalize form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.base+"/upload/sample", body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build upload request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+u.token)

	resp, err := u.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "upload request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("HTTP %d error: %s", resp.StatusCode, string(snippet))
	}

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode upload response")
	}
	if decoded.DataID == "" || decoded.SampleID == "" {
		return nil, errors.New("upload response is missing data_id or sample_id")
	}
	return &decoded, nil
}

// Summary counts the outcome of an upload batch.
type Summary struct {
	Succeeded int
	Failed    int
}

// UploadAll processes the selected 1-based rows in order.  One row's failure
// is logged and the remaining rows are still attempted.
func (u *Uploader) UploadAll(ctx context.Context, projectID string, rows []Row, selected []int, baseDir string) Summary {
	var summary Summary
	for _, idx := range selected {
		row := rows[idx-1]
		if row.Name == "" || row.Read1 == "" {
			u.Logger.Errorf("Row %d: missing sample name or file path, skipping", idx)
			summary.Failed++
			continue
		}
		sampleID, err := u.UploadSample(ctx, projectID, row, baseDir)
		if err != nil {
			u.Logger.Errorf("Row %d (%s): %v", idx, row.Name, err)
			summary.Failed++
			continue
		}
		u.Logger.Infof("Row %d: uploaded %s (sample id %s)", idx, row.Name, sampleID)
		summary.Succeeded++
	}
	return summary
}
