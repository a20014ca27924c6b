package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-phonetics/measure/fricative"
)

func newFricativeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fricative <dir>",
		Short: "Spectral balance of fricatives in a directory tree",
		Long: `Walk a directory tree and, for every talker_word_rest.wav with a
TextGrid, measure the high/low mel-spectral balance at the midpoint of each
fricative (S SH F V TH DH) on the "phone" tier. Output lines are

  <talker> <word> <phone> <high> <low> <high/low>`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			an := fricative.NewAnalyzer(fricative.Config{
				Window:  a.cfg.Fricative.Window,
				Backend: a.cfg.NewBackend(a.log),
				Logger:  a.log,
			})
			out, err := a.writer(cmd)
			if err != nil {
				return err
			}

			err = an.AnalyzeTree(cmd.Context(), args[0], func(r fricative.Result) error {
				if a.cfg.Fricative.Plot {
					fmt.Fprint(cmd.ErrOrStderr(), fricative.Plot(r, 40, fricative.DefaultPlotStyles))
				}
				return out.Write(r)
			})
			if err != nil {
				return err
			}
			return out.Flush()
		},
	}
	cmd.Flags().Float64("window", fricative.DefaultWindow, "spectral window in seconds")
	cmd.Flags().Bool("plot", false, "draw each spectrum on stderr")
	a.bind(cmd, map[string]string{"fricative.window": "window", "fricative.plot": "plot"}, false)
	return cmd
}
