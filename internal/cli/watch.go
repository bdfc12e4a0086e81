package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cloth-mask/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		timeout  time.Duration
		interval time.Duration
		exts     []string
		anyExt   bool
	)

	cmd := &cobra.Command{
		Use:   "watch DIR",
		Short: "Wait for try-on results to appear in a directory",
		Long: `Polls DIR until it holds at least one qualifying file or the timeout
elapses. The directory need not exist yet. Exits non-zero on timeout.`,
		Example: `  clothmask watch results/ --timeout 30s
  clothmask watch results/ --ext .png --interval 500ms`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.cfg.WatchOptions()
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}
			if cmd.Flags().Changed("interval") {
				opts.Interval = interval
			}
			if cmd.Flags().Changed("ext") {
				opts.Extensions = exts
			}
			if anyExt {
				opts.Extensions = nil
			}

			w, err := watch.NewResultWatcher(opts, a.logger)
			if err != nil {
				return err
			}

			res, err := w.Watch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := res.Err(); err != nil {
				return err
			}

			for _, f := range res.Files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", watch.DefaultTimeout, "Observation window")
	cmd.Flags().DurationVar(&interval, "interval", watch.DefaultInterval, "Poll cadence")
	cmd.Flags().StringSliceVar(&exts, "ext", watch.DefaultExtensions, "Accepted file extensions")
	cmd.Flags().BoolVar(&anyExt, "any", false, "Accept any file regardless of extension")

	return cmd
}
