package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-phonetics/measure/vot"
)

func newVOTCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vot <sound.wav>...",
		Short: "Measure voice onset time of every stop",
		Long: `Measure voice onset time for each stop (P B T D K G) on the "phone"
tier of each recording's TextGrid. Output lines are

  <soundfile> <word> <phone> <VOT>

with VOT in seconds, negative for prevoiced stops and NA when no burst or
voicing onset was found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := vot.NewMeasurer(vot.Config{
				Rate:    a.cfg.VOT.Rate,
				Step:    a.cfg.VOT.Step,
				Backend: a.cfg.NewBackend(a.log),
				Logger:  a.log,
			})
			out, err := a.writer(cmd)
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args {
				results, err := m.Measure(cmd.Context(), path)
				if err != nil {
					a.log.WithError(err).WithField("file", path).Error("measurement failed")
					failed++
				}
				for _, r := range results {
					if err := out.Write(r); err != nil {
						return err
					}
				}
			}
			if err := out.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("vot: %d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().Float64("rate", vot.DefaultRate, "analysis sampling rate in Hz")
	cmd.Flags().Float64("step", vot.DefaultStep, "voicing frame step in seconds")
	a.bind(cmd, map[string]string{"vot.rate": "rate", "vot.step": "step"}, false)
	return cmd
}
