//go:build linux

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ja7ad/hashload/pkg/params"
	"github.com/ja7ad/hashload/pkg/system/mem"
	"github.com/ja7ad/hashload/pkg/system/util"
	"github.com/ja7ad/hashload/pkg/types"
)

var force bool

func main() {
	root := &cobra.Command{
		Use:   "hashload-params",
		Short: "Inspect and maintain hashload parameter documents",
		Long: `hashload-params works on the runtime parameter document consumed by the
hashload workload engine. The engine hot-reloads the document every control
period; this tool writes a fresh default document, validates a hand-edited
one, and shows the effective values a partial document resolves to.

Examples:
  hashload-params init params.json
  hashload-params check params.json
  hashload-params show params.json`,
	}

	root.AddCommand(initCmd(), checkCmd(), showCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write the default parameter document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := params.Default()
			if len(args) == 0 {
				_, err := os.Stdout.Write(params.Save(p))
				return err
			}
			if _, err := os.Stat(args[0]); err == nil && !force {
				return fmt.Errorf("%s exists, pass --force to overwrite", args[0])
			}
			return p.SaveFile(args[0])
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a parameter document and flag suspicious values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params.LoadFile(args[0])
			if err != nil {
				var pe *params.ParseError
				if errors.As(err, &pe) {
					return fmt.Errorf("%s: %w", args[0], pe)
				}
				return err
			}

			// advisory only: the store accepts these verbatim
			for _, f := range fracFields(p) {
				if !util.InUnit(f.val) {
					slog.Warn("proportion outside [0,1]", "field", f.name, "value", f.val)
				}
			}
			if p.HistogramActive() {
				slog.Info("anon_histogram is set; anon size/addr distribution fields will be ignored by the engine")
			}
			if p.RpsMax == 0 {
				slog.Info("rps_max is 0; RPS footprint scaling and log padding are disabled")
			}

			fmt.Printf("%s: ok (log padding %d bytes/request)\n", args[0], p.LogPadding())
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file]",
		Short: "Show effective parameters (defaults unless a document is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := params.Default()
			if len(args) == 1 {
				var err error
				if p, err = params.LoadFile(args[0]); err != nil {
					return err
				}
			}
			printParams(p)
			printDerived(p)
			return nil
		},
	}
}

type fracField struct {
	name string
	val  float64
}

func fracFields(p params.Params) []fracField {
	return []fracField{
		{"lat_target_pct", p.LatTargetPct},
		{"mem_frac", p.MemFrac},
		{"file_frac", p.FileFrac},
		{"file_addr_rps_base_frac", p.FileAddrRpsBaseFrac},
		{"file_write_frac", p.FileWriteFrac},
		{"anon_addr_rps_base_frac", p.AnonAddrRpsBaseFrac},
		{"anon_write_frac", p.AnonWriteFrac},
	}
}

func printParams(p params.Params) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	row := func(k, v string) { fmt.Fprintf(tw, "%s\t%s\n", k, v) }
	f := util.FmtFloat
	u := func(v uint64) string { return strconv.FormatUint(v, 10) }

	fmt.Fprintln(tw, "PARAMETER\tVALUE")
	row("control_period", f(p.ControlPeriod))
	row("concurrency_max", u(uint64(p.ConcurrencyMax)))
	row("lat_target_pct", f(p.LatTargetPct))
	row("lat_target", f(p.LatTarget))
	row("rps_target", u(uint64(p.RpsTarget)))
	row("rps_max", u(uint64(p.RpsMax)))
	row("mem_frac", f(p.MemFrac))
	row("chunk_pages", strconv.Itoa(p.ChunkPages))
	row("file_frac", f(p.FileFrac))
	row("file_size_mean", types.Bytes(p.FileSizeMean).Humanized())
	row("file_size_stdev_ratio", f(p.FileSizeStdevRatio))
	row("file_addr_stdev_ratio", f(p.FileAddrStdevRatio))
	row("file_addr_rps_base_frac", f(p.FileAddrRpsBaseFrac))
	row("file_write_frac", f(p.FileWriteFrac))
	row("anon_size_ratio", f(p.AnonSizeRatio))
	row("anon_size_stdev_ratio", f(p.AnonSizeStdevRatio))
	row("anon_addr_stdev_ratio", f(p.AnonAddrStdevRatio))
	row("anon_addr_rps_base_frac", f(p.AnonAddrRpsBaseFrac))
	row("anon_write_frac", f(p.AnonWriteFrac))
	row("anon_histogram", fmt.Sprintf("%d slots", len(p.AnonHistogram)))
	row("sleep_mean", f(p.SleepMean))
	row("sleep_stdev_ratio", f(p.SleepStdevRatio))
	row("cpu_ratio", f(p.CPURatio))
	row("log_bps", u(p.LogBps))
	row("fake_cpu_load", strconv.FormatBool(p.FakeCPULoad))
	row("acc_dist_slots", strconv.Itoa(p.AccDistSlots))
	row("lat_pid", fmt.Sprintf("kp=%s ki=%s kd=%s", f(p.LatPid.Kp), f(p.LatPid.Ki), f(p.LatPid.Kd)))
	row("rps_pid", fmt.Sprintf("kp=%s ki=%s kd=%s", f(p.RpsPid.Kp), f(p.RpsPid.Ki), f(p.RpsPid.Kd)))
}

func printDerived(p params.Params) {
	fmt.Println()
	fmt.Printf("log padding: %d bytes/request\n", p.LogPadding())

	avail, err := mem.Available()
	if err != nil {
		slog.Warn("skipping footprint figures", "err", err)
		return
	}
	footprint := avail.Scale(p.MemFrac)
	fmt.Printf("available memory: %s\n", avail.Humanized())
	fmt.Printf("memory footprint (mem_frac): %s\n", footprint.Humanized())
	fmt.Printf("page cache share (file_frac): %s\n", footprint.Scale(p.FileFrac).Humanized())
	fmt.Printf("anon share: %s\n", footprint.Scale(1-p.FileFrac).Humanized())
}
