package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/posereplay/internal/config"
	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/motion"
	"github.com/san-kum/posereplay/internal/playback"
	"github.com/san-kum/posereplay/internal/robot"
	"github.com/spf13/cobra"
)

var titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)

func runInspect(cmd *cobra.Command, args []string) error {
	if spectrum {
		if err := playback.ValidateFPS(fps); err != nil {
			return err
		}
	}

	cfg := config.DefaultConfig()
	cfg.Motion.Delimiter = delimiter
	delim, err := cfg.Delimiter()
	if err != nil {
		return err
	}

	path := args[0]
	tbl, err := motion.ReadFile(path, motion.Options{Comma: delim})
	if err != nil {
		return err
	}
	if err := tbl.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	var model *robot.Model
	if inspectModel != "" {
		model, err = robot.Load(inspectModel, robot.Options{FloatingBase: true})
		if err != nil {
			return err
		}
		if w, dof := tbl.Width(), model.DOF(); w+1 != dof {
			return &mocap.DimensionError{Expected: dof - 1, Actual: w, Row: -1, Msg: fmt.Sprintf("motion columns do not match model %q", model.Name)}
		}
		if len(tbl.Columns) == 0 {
			tbl.Columns = jointColumns(tbl, model)
		}
	}

	out := cmd.OutOrStdout()
	joints := tbl.Width() - mocap.BaseFrameDim
	fmt.Fprintln(out, titleStyle.Render(path))
	fmt.Fprintf(out, "frames: %d\ncolumns: %d (%d joints, model DOF %d)\n\n", tbl.Len(), tbl.Width(), max(joints, 0), tbl.Width()+1)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COL\tNAME\tMIN\tMAX\tMEAN")
	for _, s := range motion.Summarize(tbl) {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%.4f\n", s.Index, s.Name, s.Min, s.Max, s.Mean)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if model != nil {
		if err := printLimits(out, model, tbl); err != nil {
			return err
		}
	}

	if column < 0 {
		return nil
	}
	data, err := tbl.Column(column)
	if err != nil {
		return err
	}
	name := motion.ColumnName(tbl, column)
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(name),
	)
	fmt.Fprintf(out, "\n%s\n", graph)

	if !spectrum || len(data) < 4 {
		return nil
	}
	ps := motion.PowerSpectrum(data, fps)
	if len(ps.Power) == 0 {
		return nil
	}
	graph = asciigraph.Plot(ps.Power,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("power spectrum (%s, %.3f hz/bin)", name, ps.Resolution)),
	)
	fmt.Fprintf(out, "\n%s\n\n", graph)

	freq := ps.Dominant()
	fmt.Fprintf(out, "dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Fprintf(out, "period: %.3f s\n", 1/freq)
	}
	return nil
}

// jointColumns names base columns by role and joint columns after the
// model's joints.
func jointColumns(tbl *mocap.Table, model *robot.Model) []string {
	cols := make([]string, 0, tbl.Width())
	for i := 0; i < mocap.BaseFrameDim; i++ {
		cols = append(cols, motion.ColumnName(tbl, i))
	}
	return append(cols, model.JointNames()...)
}

func printLimits(out io.Writer, model *robot.Model, tbl *mocap.Table) error {
	violations := model.CheckLimits(tbl.Frames)
	if len(violations) == 0 {
		fmt.Fprintf(out, "\nall joints within %s limits\n", model.Name)
		return nil
	}

	fmt.Fprintln(out, "\nlimit violations:")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COL\tJOINT\tLOWER\tUPPER\tFRAMES\tFIRST\tWORST")
	for _, v := range violations {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\t%d\t%d\t%.4f\n", v.Column, v.Joint, v.Lower, v.Upper, v.Count, v.First+1, v.Worst)
	}
	return w.Flush()
}
