package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"

	"career-console/internal/backend"
	import_feature "career-console/internal/features/import"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	runFile       string
	runTable      string
	runMappings   []string
	runRejections string
	runDryRun     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Import a file",
	Long: `Import a CSV or XLSX file into a target table. Columns are auto-matched
against the table's fields; --map source=field overrides a match and
--map source= drops a column.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := parseMappings(runMappings)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(runFile)
		if err != nil {
			return err
		}

		log := newLogger()
		client, sess, err := newClient(log)
		if err != nil {
			return err
		}
		user, _ := sess.CurrentUser()

		w := import_feature.NewWizard(uuid.NewString(), user.Email)
		if err := w.LoadFile(filepath.Base(runFile), content, import_feature.TargetTable(runTable)); err != nil {
			return err
		}
		for _, source := range import_feature.ColumnMapping(overrides).Sources() {
			if err := w.SetMapping(source, overrides[source]); err != nil {
				return err
			}
		}

		printMapping(w.Snapshot())
		if err := w.Continue(); err != nil {
			var incomplete *import_feature.MappingIncompleteError
			if errors.As(err, &incomplete) {
				return fmt.Errorf("required fields are not mapped: %s", strings.Join(incomplete.Violations, ", "))
			}
			return err
		}
		if runDryRun {
			color.Yellow("Dry run: nothing uploaded")
			return nil
		}
		if err := w.Confirm(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		submitter := import_feature.NewSubmitter(client, import_feature.NewPoller(client, cfg.JobPollInterval, log), log)

		var mu sync.Mutex
		lastPhase := import_feature.SubmitPhase("")
		err = submitter.Run(ctx, sess, w, func() {
			mu.Lock()
			defer mu.Unlock()
			sub := w.Snapshot().Submission
			if sub.Phase != lastPhase {
				fmt.Printf("%s\n", sub.Phase)
				lastPhase = sub.Phase
			}
		})
		if errors.Is(err, context.Canceled) {
			color.Yellow("Stopped following the job; check it later with: importctl status %s", w.Snapshot().Submission.JobID)
			return nil
		}
		if err != nil {
			return err
		}

		sub := w.Snapshot().Submission
		if sub.Job == nil {
			return fmt.Errorf("job %s finished without a status", sub.JobID)
		}
		printJob(*sub.Job)
		if runRejections != "" && sub.Job.HasRejections {
			if err := saveRejections(cmd, client, sess, sub.JobID, runRejections); err != nil {
				return err
			}
		}
		if sub.Job.Status == backend.JobStatusFailed {
			return errors.New(sub.Error)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "CSV or XLSX file to import")
	runCmd.Flags().StringVar(&runTable, "table", "", "Target table (see: importctl schemas)")
	runCmd.Flags().StringArrayVarP(&runMappings, "map", "m", nil, "Override a column mapping as source=field")
	runCmd.Flags().StringVar(&runRejections, "rejections", "", "Write the rejected rows to this CSV file")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Stop after the preview")
	runCmd.MarkFlagRequired("file")
	runCmd.MarkFlagRequired("table")
}

// parseMappings reads repeated source=field flags. An empty field clears the
// source column's mapping.
func parseMappings(values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, v := range values {
		source, target, ok := strings.Cut(v, "=")
		source = strings.TrimSpace(source)
		if !ok || source == "" {
			return nil, fmt.Errorf("invalid --map %q, expected source=field", v)
		}
		if _, dup := out[source]; dup {
			return nil, fmt.Errorf("column %q mapped more than once", source)
		}
		target = strings.TrimSpace(target)
		if target == "" {
			target = import_feature.MappingNone
		}
		out[source] = target
	}
	return out, nil
}

func printMapping(st import_feature.State) {
	color.Cyan("%s: %d rows, target %s", st.File.Name, st.TotalRows, st.TargetTable)
	for _, h := range st.Headers {
		target, ok := st.Mapping[h]
		if !ok || target == "" {
			fmt.Printf("  %-28s %s\n", h, color.HiBlackString("(not imported)"))
			continue
		}
		fmt.Printf("  %-28s -> %s\n", h, target)
	}
	for _, v := range st.Violations {
		color.Red("  missing: %s", v)
	}
}
