package main

import (
	"bufio"
	"context"
	"encoding/gob"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ulelab/flow-batch/api"
	"github.com/ulelab/flow-batch/client"
	"github.com/ulelab/flow-batch/config"
	"github.com/ulelab/flow-batch/queue"
	"github.com/ulelab/flow-batch/run"
	"github.com/ulelab/flow-batch/upload"
)

// login prompts for credentials and authenticates the client.  The password
// is read with terminal echo disabled and never logged.
func login(ctx context.Context, cl *client.Client) error {
	fmt.Print("Username: ")
	reader := bufio.NewReader(os.Stdin)
	username, err := reader.ReadString('\n')
	if err != nil {
		return errors.Wrap(err, "failed to read username")
	}
	username = strings.TrimSpace(username)

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return errors.Wrap(err, "failed to read password")
	}

	return cl.Login(ctx, username, string(password))
}

// parseFilter turns a "field=pattern" flag value into a filter spec.  An
// empty value means no filtering.
func parseFilter(value string) (*run.FilterSpec, error) {
	if value == "" {
		return nil, nil
	}
	field, pattern, found := strings.Cut(value, "=")
	if !found {
		return nil, errors.Errorf("invalid filter %q, expected field=pattern", value)
	}
	return &run.FilterSpec{Field: field, Pattern: pattern}, nil
}

// Create the run command
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Plan sample batches for a project and submit one pipeline run per batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush, err := setup(cmd)
			if err != nil {
				return err
			}
			defer flush()

			projectID, _ := cmd.Flags().GetString("pid")
			filterValue, _ := cmd.Flags().GetString("filter")
			numBatches, _ := cmd.Flags().GetInt("num-batches")
			startBatch, _ := cmd.Flags().GetInt("start-batch")
			endBatch, _ := cmd.Flags().GetInt("end-batch")
			profileName, _ := cmd.Flags().GetString("profile")
			profileFile, _ := cmd.Flags().GetString("profile-file")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			spec, err := parseFilter(filterValue)
			if err != nil {
				return err
			}
			profile, err := config.ResolveProfile(profileName, profileFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			cl := client.New(cfg)
			if err := login(ctx, cl); err != nil {
				return err
			}

			samples, err := cl.ProjectSamples(ctx, projectID)
			if err != nil {
				return err
			}
			samples, err = run.Filter(samples, spec)
			if err != nil {
				return err
			}
			if spec != nil {
				fmt.Printf("Filtered %d samples:\n", len(samples))
				for _, sample := range samples {
					fmt.Printf("  %s\n", sample.Name)
				}
			}

			batches, err := run.PlanBatches(samples, numBatches)
			if err != nil {
				return err
			}
			batches, err = run.SelectRange(batches, startBatch, endBatch)
			if err != nil {
				return err
			}

			refs, err := run.ResolveReferences(ctx, cl, profile.PrepExecutionID, profile.FileMap)
			if err != nil {
				return err
			}
			versionID, err := cl.PipelineVersionID(ctx, profile.PipelineID, profile.PipelineVersion)
			if err != nil {
				return err
			}
			requests, err := run.BuildRequests(batches, profile, refs)
			if err != nil {
				return err
			}

			env := cfg.Environment
			var batchQueue queue.BatchQueue
			if env.JournalQueue {
				// The gob package that the persisted queue uses for storing data
				// requires a one-time registration of any structures it stores.
				gob.Register(&run.SubmissionRequest{})
				batchQueue, err = queue.NewJournalQueue(env.BatchQueueSize, env.JournalDir, env.JournalName)
				if err != nil {
					return err
				}
				cfg.Logger.Infof("Loaded journal with %d entries from %s", batchQueue.Size(), path.Join(env.JournalDir, env.JournalName))
			} else {
				// in-memory queue, data does not survive a restart
				batchQueue = queue.NewMemoryQueue(env.BatchQueueSize)
			}
			defer func() {
				_ = batchQueue.Close()
			}()

			for _, request := range requests {
				queued, err := batchQueue.Enqueue(request.RequestKey, request)
				if err != nil {
					return err
				}
				if !queued {
					cfg.Logger.Warnf("Batch queue full, batch %d not queued", request.Batch.Index)
				}
			}

			progress := run.NewProgress(dryRun)
			progress.SetPlanned(batchQueue.Size())

			if env.StatusAddr != "" {
				router, err := api.NewRouter(*cfg, progress, batchQueue)
				if err != nil {
					return err
				}
				go func() {
					cfg.Logger.Infof("Status endpoint listening on %s", env.StatusAddr)
					if err := http.ListenAndServe(env.StatusAddr, router); err != nil {
						cfg.Logger.Error(err)
					}
				}()
			}

			confirmer := &run.StdinConfirmer{In: os.Stdin, Out: os.Stdout}
			submitter := run.NewSubmitter(cfg, cl, versionID, confirmer, dryRun, progress)
			progress.SetStage("submitting")
			report, err := submitter.SubmitAll(ctx, batchQueue)
			if err != nil {
				return err
			}
			progress.SetStage("finished")
			printReport(report)
			return report.Err()
		},
	}

	cmd.Flags().String("pid", "", "project id whose samples to process")
	cmd.Flags().String("filter", "", "sample filter as field=pattern, with * and ? wildcards")
	cmd.Flags().IntP("num-batches", "n", 1, "number of batches to split the samples into")
	cmd.Flags().Int("start-batch", 0, "first batch to submit (1-based, 0 = first)")
	cmd.Flags().Int("end-batch", 0, "last batch to submit (1-based, 0 = last)")
	cmd.Flags().String("profile", "clip", "built-in pipeline profile: clip or rna")
	cmd.Flags().String("profile-file", "", "YAML file overriding the pipeline profile")
	cmd.Flags().Bool("dry-run", false, "plan and print batches without submitting anything")
	_ = cmd.MarkFlagRequired("pid")
	return cmd
}

// printReport writes the per-batch outcome to stdout.  Successful execution
// URLs are always printed, even when other batches failed.
func printReport(report *run.Report) {
	if report.Aborted {
		fmt.Println("Aborted, nothing submitted.")
		return
	}
	for _, result := range report.Succeeded() {
		if report.DryRun {
			fmt.Printf("Batch %d: %d samples (dry run)\n", result.Batch, result.SampleCount)
			continue
		}
		fmt.Printf("Batch %d: %s\n", result.Batch, result.URL)
	}
	for _, result := range report.Failed() {
		fmt.Printf("Batch %d: FAILED: %v\n", result.Batch, result.Err)
	}
}

// Create the upload command
func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <samplesheet.tsv>",
		Short: "Upload samples from a tab-separated samplesheet to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, flush, err := setup(cmd)
			if err != nil {
				return err
			}
			defer flush()

			projectID, _ := cmd.Flags().GetString("project")
			rowSpec, _ := cmd.Flags().GetString("rows")
			baseDir, _ := cmd.Flags().GetString("base-dir")

			rows, err := upload.ReadSamplesheet(args[0])
			if err != nil {
				return err
			}
			selected := make([]int, len(rows))
			for i := range rows {
				selected[i] = i + 1
			}
			if rowSpec != "" {
				selected, err = upload.ParseRowSpec(rowSpec, len(rows))
				if err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			cl := client.New(cfg)
			if err := login(ctx, cl); err != nil {
				return err
			}

			uploader := upload.NewUploader(cfg, cl.Token())
			summary := uploader.UploadAll(ctx, projectID, rows, selected, baseDir)
			fmt.Printf("Uploaded %d samples, %d failed.\n", summary.Succeeded, summary.Failed)
			if summary.Failed > 0 {
				return errors.Errorf("%d of %d uploads failed", summary.Failed, len(selected))
			}
			return nil
		},
	}

	cmd.Flags().String("project", "", "project id to attach the uploaded samples to")
	cmd.Flags().String("rows", "", "1-based rows to upload, e.g. 1-10,15,22-24 (default all)")
	cmd.Flags().String("base-dir", "", "directory the samplesheet's file paths are relative to")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
