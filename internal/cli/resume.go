package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/cwbudde/primify/internal/jobsvc"
	jobstore "github.com/cwbudde/primify/internal/jobsvc/store"
	"github.com/spf13/cobra"
)

var (
	resumeServerURL string
	resumeLocalMode bool
	resumeDataDir   string
	resumeRefPath   string
	resumeOutPath   string
	resumeFormat    string
)

var resumeCmd = &cobra.Command{
	Use:   "resume [job-id]",
	Short: "Resume optimization from a checkpoint",
	Long: `Resume an approximation job from a saved checkpoint.

Supports two modes:
  1. Server mode (default): POST to the server's resume endpoint
  2. Local mode (--local): load the checkpoint and step the model locally`,
	Args: cobra.ExactArgs(1),
	RunE: runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeServerURL, "server", "http://localhost:8080", "Server URL for remote resume")
	resumeCmd.Flags().BoolVar(&resumeLocalMode, "local", false, "Resume locally instead of via server")
	resumeCmd.Flags().StringVar(&resumeDataDir, "data-dir", "./data", "Checkpoint storage directory (local mode)")
	resumeCmd.Flags().StringVar(&resumeRefPath, "ref", "", "Reference image path (required in both modes, since checkpoints don't store the target)")
	resumeCmd.Flags().StringVar(&resumeOutPath, "out", "out.png", "Output path (local mode)")
	resumeCmd.Flags().StringVar(&resumeFormat, "format", "png", "Output format: png, svg, json, bmp (local mode)")

	Root.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	jobID := args[0]
	if resumeLocalMode {
		return runResumeLocal(jobID)
	}
	return runResumeServer(jobID)
}

func runResumeServer(jobID string) error {
	if resumeRefPath == "" {
		return fmt.Errorf("--ref is required: the server needs the target image re-uploaded to resume")
	}

	f, err := os.Open(resumeRefPath)
	if err != nil {
		return fmt.Errorf("failed to open reference: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("target", filepath.Base(resumeRefPath))
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy reference into request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/jobs/%s/resume", resumeServerURL, jobID)
	resp, err := http.Post(url, mw.FormDataContentType(), &body)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("checkpoint not found for job %s", jobID)
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ID    string `json:"id"`
		State string `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Job resumed: %s (state: %s)\n", result.ID, result.State)
	fmt.Printf("Use 'primify status %s --server %s' to monitor progress\n", result.ID, resumeServerURL)

	return nil
}

func runResumeLocal(jobID string) error {
	if resumeRefPath == "" {
		return fmt.Errorf("--ref is required: checkpoints don't store the original target image")
	}

	st, err := jobstore.NewFSStore(resumeDataDir)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint store: %w", err)
	}

	cp, err := st.LoadCheckpoint(jobID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint: %w", err)
	}

	fmt.Printf("Loaded checkpoint:\n")
	fmt.Printf("  Job ID: %s\n", cp.JobID)
	fmt.Printf("  Shapes committed: %d\n", len(cp.CommittedShapes))
	fmt.Printf("  Last score: %f\n", cp.LastScore)
	fmt.Printf("  Checkpoint time: %s\n\n", cp.Timestamp)

	target, err := loadTarget(resumeRefPath)
	if err != nil {
		return err
	}

	mgr := jobsvc.NewManager()
	job, err := jobsvc.Resume(mgr, target, cp)
	if err != nil {
		return fmt.Errorf("failed to resume job: %w", err)
	}

	ctx := context.Background()
	if err := jobsvc.Run(ctx, mgr, st, job.ID); err != nil {
		return fmt.Errorf("resumed run failed: %w", err)
	}

	if err := writeOutput(resumeOutPath, resumeFormat, target, job.Shapes, job.Model.Current()); err != nil {
		return err
	}

	fmt.Printf("Resumed and completed: %d shapes, score %.6f\n", len(job.Shapes), job.Model.Score())
	fmt.Printf("Wrote %s\n", resumeOutPath)

	return nil
}
