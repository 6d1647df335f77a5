package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"semantic-mapper/internal/engine"
	"semantic-mapper/internal/output"
	"semantic-mapper/internal/reader"
)

var exampleForMapCmd = `  semantic-mapper map -d company.yml
  semantic-mapper map -d company.yml -o company.nt --metrics company.prom`

func newMapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "map",
		Short:   "Map the described resources and write N-Triples",
		Example: exampleForMapCmd,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runMap(cmd)
		},
	}

	addDescriptionFlag(cmd)
	addPlanFlags(cmd)
	cmd.Flags().StringP(keyOutput, "o", "", "output file (default stdout)")
	cmd.Flags().Bool(keyStrictShapes, false, "abort on a non-scalar value in a scalar slot instead of dropping the record")
	cmd.Flags().Bool(keyValidateLinks, false, "only link to records that were written")
	cmd.Flags().String(keyMetrics, "", "write run counters to this file in Prometheus text format")

	return cmd
}

func (a *app) runMap(cmd *cobra.Command) error {
	ctx := cmd.Context()

	_, c, path, err := a.description()
	if err != nil {
		return err
	}

	readers, err := reader.LoadAll(ctx, filepath.Dir(path), c.Sources)
	if err != nil {
		return err
	}

	p, err := a.plan(c)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()

	if file := a.v.GetString(keyOutput); file != "" {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("failed to create output %s: %w", file, err)
		}
		defer f.Close()

		out = f
	}

	opts := engine.Options{
		Config: engine.Config{
			StrictShapes:  a.v.GetBool(keyStrictShapes),
			ValidateLinks: a.v.GetBool(keyValidateLinks),
		},
		Logger: a.logger,
	}

	var reg *prometheus.Registry

	metricsFile := a.v.GetString(keyMetrics)
	if metricsFile != "" {
		reg = prometheus.NewRegistry()
		opts.Registerer = reg
	}

	w := output.NewNTriples(out, c.Model)

	stats, err := engine.Run(ctx, p, readers, w, opts)
	if err != nil {
		return err
	}

	a.logger.Info("mapping finished",
		"triples", w.Lines(),
		"records", stats.Total().Emitted,
		"dropped_links", w.DroppedLinks())

	renderStats(cmd.ErrOrStderr(), stats)

	if reg != nil {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	return nil
}

func renderStats(w io.Writer, stats *engine.Stats) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"class", "emitted", "dropped", "duplicates", "shape errors", "buffered"})

	row := func(c engine.ClassStats) []string {
		return []string{
			c.Class,
			strconv.Itoa(c.Emitted),
			strconv.Itoa(c.Dropped),
			strconv.Itoa(c.Duplicates),
			strconv.Itoa(c.ShapeErrors),
			strconv.Itoa(c.Buffered),
		}
	}

	for _, c := range stats.Classes {
		table.Append(row(c))
	}

	total := stats.Total()
	total.Class = "total"
	table.SetFooter(row(total))

	table.Render()
}
