package cli

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"cloth-mask/internal/config"
)

// app carries what every subcommand needs once flags have been parsed.
type app struct {
	configPath string
	debug      bool

	cfg    *config.Config
	logger logrus.FieldLogger
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "clothmask",
		Short: "Cloth mask generation and try-on result watching",
		Long: `clothmask prepares inputs for an external virtual try-on engine and
observes its output.

It derives binary garment masks from cloth photographs (Otsu threshold,
morphological closing, contour area filtering) and waits for the engine's
result images to appear in a directory.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			if a.debug {
				cfg.Log.Level = "debug"
				cfg.Log.Format = "text"
			}
			a.cfg = cfg

			logger, err := NewLogger(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger.WithFields(logrus.Fields{
				"run_id":  uuid.NewString(),
				"command": cmd.Name(),
			})
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug mode with verbose logging")

	cmd.AddCommand(newMaskCmd(a))
	cmd.AddCommand(newWatchCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}
