package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"focusflow/internal/commands/options"
	"focusflow/internal/config"
	"focusflow/internal/log"
	"focusflow/internal/printers"
	"focusflow/internal/repository"
	"focusflow/internal/service"
)

// runtime is what every subcommand shares: the loaded config, the open
// gateway and the store on top of it.
type runtime struct {
	in     io.Reader
	output *options.OutputOptions
	open   func(config.Config) (repository.Gateway, error)
	opts   []service.Option

	logLevel string

	cfg   config.Config
	gw    repository.Gateway
	store *service.Store
	pp    *printers.PrettyPrint
}

func New() *cobra.Command {
	return newRoot(&runtime{
		in:     os.Stdin,
		output: &options.OutputOptions{Out: color.Output},
		open:   repository.Open,
	})
}

func newRoot(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "focusflow",
		Short: options.Wrap80("Tasks and a calendar of dated events, kept in local storage."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			rt.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetOut(rt.output.Out)

	options.AddOutputArg(cmd, rt.output)
	cmd.PersistentFlags().StringVar(&rt.logLevel, "log-level", "",
		"debug, info, warn or error. Defaults to warn, or the configured level for serve.")

	AddCommands(cmd, rt)
	return cmd
}

func AddCommands(topLevel *cobra.Command, rt *runtime) {
	addTasks(topLevel, rt)
	addTask(topLevel, rt)
	addEvents(topLevel, rt)
	addEvent(topLevel, rt)
	addCategories(topLevel, rt)
	addCategory(topLevel, rt)
	addCal(topLevel, rt)
	addDay(topLevel, rt)
	addExport(topLevel, rt)
	addImport(topLevel, rt)
	addDigest(topLevel, rt)
	addServe(topLevel, rt)
}

func (rt *runtime) setup(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	rt.cfg = cfg

	level := "warn"
	switch {
	case rt.logLevel != "":
		level = rt.logLevel
	case cmd.Name() == "serve":
		level = cfg.LogLevel
	}
	log.SetLevel(log.ParseLevel(level))

	gw, err := rt.open(cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	rt.gw = gw

	opts := append([]service.Option{service.WithUndoWindow(cfg.UndoWindow)}, rt.opts...)
	rt.store = service.NewStore(cmd.Context(), gw, opts...)
	rt.pp = printers.New(rt.output.Out)
	return nil
}

func (rt *runtime) close() {
	if rt.gw == nil {
		return
	}
	if err := rt.gw.Close(); err != nil {
		log.Error("close storage", err)
	}
	rt.gw = nil
}

// done reports a completed mutation, honoring --json.
func (rt *runtime) done(msg string, v interface{}) error {
	if rt.output.JSON {
		return rt.output.Print(v)
	}
	rt.pp.Notice(msg)
	return nil
}

func (rt *runtime) warn(res service.Result) {
	if res.Warning != "" && !rt.output.JSON {
		rt.pp.Warning(res.Warning)
	}
}
