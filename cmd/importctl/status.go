package main

import (
	"fmt"
	"os"

	"career-console/internal/backend"
	"career-console/internal/identity"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusRejections string

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show an import job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, sess, err := newClient(newLogger())
		if err != nil {
			return err
		}
		job, err := client.GetJob(cmd.Context(), sess, args[0])
		if err != nil {
			return err
		}
		printJob(*job)
		if statusRejections != "" && job.HasRejections {
			return saveRejections(cmd, client, sess, args[0], statusRejections)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusRejections, "rejections", "", "Write the rejected rows to this CSV file")
}

func printJob(job backend.ImportJob) {
	status := string(job.Status)
	switch job.Status {
	case backend.JobStatusCompleted:
		status = color.GreenString(status)
	case backend.JobStatusFailed:
		status = color.RedString(status)
	default:
		status = color.YellowString(status)
	}
	fmt.Printf("Job %s (%s): %s\n", job.ID, job.TargetTable, status)
	fmt.Printf("  rows: %d total, %d valid, %d invalid\n", job.TotalRows, job.ValidRows, job.InvalidRows)
	if job.ErrorMessage != "" {
		fmt.Printf("  error: %s\n", job.ErrorMessage)
	}
	if job.HasRejections {
		fmt.Println("  rejected rows are available (--rejections <file>)")
	}
}

func saveRejections(cmd *cobra.Command, client *backend.Client, sess identity.Session, jobID, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := client.DownloadRejections(cmd.Context(), sess, jobID, f)
	if err != nil {
		return fmt.Errorf("download rejections: %w", err)
	}
	color.Yellow("Wrote %d bytes of rejected rows to %s", n, path)
	return nil
}
