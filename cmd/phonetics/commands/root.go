// Package commands implements the phonetics command tree.
package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-phonetics/internal/config"
	"github.com/cwbudde/algo-phonetics/internal/report"
)

// app is the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *config.Config
	log     *logrus.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:   "phonetics",
		Short: "Phonetic measurements on labelled recordings",
		Long: `phonetics - measurements for the phonetics lab.

Recordings are WAV files with a Praat TextGrid of the same name holding a
"phone" tier (and a "word" tier for VOT).

Settings come from flags, PHONETICS_* environment variables (for example
PHONETICS_VOT_RATE) and phonetics.yaml in the working directory or in
~/.config/phonetics.

Examples:
  phonetics vot talker1_bad_1.wav
  phonetics fricative --plot ./recordings
  phonetics ecog /data/EC2 EC2_B1 --out block.msgpack`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.v, a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = cfg.Logger(cmd.ErrOrStderr())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default phonetics.yaml on the search path)")
	pf.String("backend", "native", "analysis backend: native or esps")
	pf.StringP("output", "o", "text", "output format: text, json or yaml")
	pf.String("log-level", "warn", "log level")
	pf.String("log-format", "text", "log format: text or json")
	pf.String("esps-bin", "", "directory holding the ESPS tools")
	a.bind(root, map[string]string{
		"backend":      "backend",
		"output":       "output",
		"log.level":    "log-level",
		"log.format":   "log-format",
		"esps.bin_dir": "esps-bin",
	}, true)

	root.AddCommand(
		newVOTCmd(a),
		newFricativeCmd(a),
		newECoGCmd(a),
		newChannelCmd(),
		newVersionCmd(),
	)
	return root
}

// bind maps viper keys to flags of cmd.
func (a *app) bind(cmd *cobra.Command, keys map[string]string, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	for key, flag := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func (a *app) writer(cmd *cobra.Command) (*report.Writer, error) {
	f, err := report.ParseFormat(a.cfg.Output)
	if err != nil {
		return nil, err
	}
	return report.NewWriter(cmd.OutOrStdout(), f), nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
