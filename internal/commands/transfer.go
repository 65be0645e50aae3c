package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatICS  = "ics"
)

func addExport(topLevel *cobra.Command, rt *runtime) {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup of categories, tasks and events",
		Example: `
focusflow export > backup.json
focusflow export --format yaml -o backup.yaml
focusflow export --format ics -o -
focusflow export -o .
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := rt.store
			var data []byte
			switch strings.ToLower(format) {
			case formatJSON:
				b, err := s.ExportJSON()
				if err != nil {
					return err
				}
				data = b
			case formatYAML:
				b, err := s.ExportYAML()
				if err != nil {
					return err
				}
				data = b
			case formatICS:
				data = []byte(s.ExportICS())
			default:
				return fmt.Errorf("unknown format %q, expected json, yaml or ics", format)
			}

			if out == "" || out == "-" {
				_, err := rt.output.Out.Write(data)
				return err
			}
			if info, err := os.Stat(out); err == nil && info.IsDir() {
				out = filepath.Join(out, s.ExportFileName(strings.ToLower(format)))
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			rt.pp.Notice(fmt.Sprintf("Exported to %s", out))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", formatJSON, "json, yaml or ics.")
	cmd.Flags().StringVarP(&out, "output", "o", "", "File or directory to write; stdout when empty.")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{formatJSON, formatYAML, formatICS}, cobra.ShellCompDirectiveNoFileComp
	})
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command, rt *runtime) {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace categories, tasks and events with a backup",
		Long: `Replace categories, tasks and events with the contents of an export.
Nothing is merged. A file missing any of the three lists is rejected and
nothing changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(rt.in)
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			if format == "" {
				format = formatJSON
				switch strings.ToLower(filepath.Ext(args[0])) {
				case ".yaml", ".yml":
					format = formatYAML
				}
			}
			switch format {
			case formatYAML:
				err = rt.store.ImportYAML(cmd.Context(), data)
			default:
				err = rt.store.Import(cmd.Context(), data)
			}
			if err != nil {
				return rt.output.HandleError(err)
			}
			snap := rt.store.Snapshot()
			return rt.done(
				fmt.Sprintf("Imported %d categories, %d tasks and %d events", len(snap.Categories), len(snap.Tasks), len(snap.Events)),
				map[string]int{"categories": len(snap.Categories), "tasks": len(snap.Tasks), "events": len(snap.Events)},
			)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml; guessed from the file extension when empty.")
	topLevel.AddCommand(cmd)
}
