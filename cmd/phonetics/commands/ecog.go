package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-phonetics/ecog"
)

// blockSummary describes a loaded block.
type blockSummary struct {
	Dir          string  `json:"dir" yaml:"dir"`
	Block        string  `json:"block" yaml:"block"`
	Channels     int     `json:"channels" yaml:"channels"`
	Frames       int     `json:"frames" yaml:"frames"`
	Features     int     `json:"features" yaml:"features"`
	Rate         float64 `json:"rate" yaml:"rate"`
	PeriodMillis float64 `json:"period_ms" yaml:"period_ms"`
	Bad          []int   `json:"bad" yaml:"bad"`
	Out          string  `json:"out,omitempty" yaml:"out,omitempty"`
}

func (s blockSummary) String() string {
	bad := make([]string, len(s.Bad))
	for i, n := range s.Bad {
		bad[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("%s: %d x %d x %d, rate %g Hz, bad channels [%s]",
		filepath.Join(s.Dir, s.Block), s.Channels, s.Frames, s.Features, s.Rate, strings.Join(bad, " "))
}

func newECoGCmd(a *app) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "ecog <dir> <block>",
		Short: "Load a UCSF ECoG block",
		Long: `Load the 256 Wav*.htk channels of <dir>/<block>, decimate each along
time and report the block shape, frame rate and bad channels listed in
<dir>/Artifacts/badChannels.txt. With --out the block is written as
msgpack.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ecog.LoadBlock(cmd.Context(), args[0], args[1],
				ecog.WithDecimate(a.cfg.ECoG.Decimate),
				ecog.WithWorkers(a.cfg.ECoG.Workers),
				ecog.WithLogger(a.log),
			)
			if err != nil {
				return err
			}

			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("ecog: %w", err)
				}
				if err := b.Encode(f); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return fmt.Errorf("ecog: %w", err)
				}
			}

			c, fr, ft := b.Shape()
			out, err := a.writer(cmd)
			if err != nil {
				return err
			}
			if err := out.Write(blockSummary{
				Dir: args[0], Block: args[1],
				Channels: c, Frames: fr, Features: ft,
				Rate: b.Rate, PeriodMillis: b.PeriodMillis, Bad: b.Bad,
				Out: outPath,
			}); err != nil {
				return err
			}
			return out.Flush()
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the block as msgpack to this file")
	cmd.Flags().Int("decimate", ecog.DefaultDecimate, "decimation factor along time")
	cmd.Flags().Int("workers", 8, "channels loaded concurrently")
	a.bind(cmd, map[string]string{"ecog.decimate": "decimate", "ecog.workers": "workers"}, false)
	return cmd
}

func newChannelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channel <n>...",
		Short: "Print ECoG channel file names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, s := range args {
				n, err := strconv.Atoi(s)
				if err != nil {
					return fmt.Errorf("channel: %q is not a number", s)
				}
				name, err := ecog.ChannelFileName(n)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
