package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"semantic-mapper/internal/alignment"
	"semantic-mapper/internal/description"
	"semantic-mapper/internal/plan"
)

var exampleForPlanCmd = `  semantic-mapper plan -d company.yml
  semantic-mapper plan -d company.yml --dump
  semantic-mapper plan -d company.yml --suggest > company.locked.yml`

func newPlanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Short:   "Show the class order and the execution plan of every class",
		Example: exampleForPlanCmd,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, c, _, err := a.description()
			if err != nil {
				return err
			}

			p, err := a.plan(c)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch {
			case a.v.GetBool(keyDump):
				_, err = io.WriteString(out, p.Dump())
				return err
			case a.v.GetBool(keySuggest):
				data, err := description.ExportSuggestionsYAML(f, c, p)
				if err != nil {
					return err
				}

				_, err = out.Write(data)

				return err
			}

			renderPlan(out, p)

			return nil
		},
	}

	addDescriptionFlag(cmd)
	addPlanFlags(cmd)
	cmd.Flags().Bool(keyDump, false, "dump the raw class plans instead of tables")
	cmd.Flags().Bool(keySuggest, false, "print the description with inferred subjects and implicit alignments written out")

	return cmd
}

const keyImplicitAlignments = "implicit-alignments"

func addPlanFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(keyImplicitAlignments, true,
		"align same-resource attributes sharing a leading range without an explicit alignment")
}

func (a *app) plan(c *description.Compiled) (*plan.Plan, error) {
	config := plan.DefaultConfig()
	config.ImplicitAlignments = a.v.GetBool(keyImplicitAlignments)

	return plan.Build(c.Attributes, c.Alignments, c.Model, config, a.logger)
}

// renderPlan prints one summary table of every class followed by the
// properties of each class.
func renderPlan(w io.Writer, p *plan.Plan) {
	names := make([]string, len(p.Classes))
	for i, cp := range p.Classes {
		names[i] = cp.Name
	}

	fmt.Fprintf(w, "order: %s\n", strings.Join(names, ", "))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"class", "subject", "kind", "identifier", "may drop"})

	for i := range p.Classes {
		cp := &p.Classes[i]
		table.Append([]string{
			cp.Name,
			p.Attributes[cp.Subject.Attr].Name,
			cp.Subject.Kind.String(),
			identifierName(p, cp),
			strconv.FormatBool(plan.MayDropRecords(cp)),
		})
	}

	table.Render()

	for i := range p.Classes {
		cp := &p.Classes[i]

		fmt.Fprintf(w, "\nclass %s\n", cp.Name)

		props := tablewriter.NewWriter(w)
		props.SetHeader([]string{"predicate", "target", "optional", "cardinality", "alignments"})
		props.SetAutoWrapText(false)

		for _, d := range cp.DataProps {
			props.Append(propRow(p, p.Model.Predicate(d.Predicate), p.Attributes[d.Attr].Name, d.Optional, d.Align))
		}

		for _, l := range cp.LiteralProps {
			props.Append([]string{p.Model.Predicate(l.Predicate), strconv.Quote(l.Value.String()), "false", "", ""})
		}

		for _, o := range cp.ObjectProps {
			props.Append(propRow(p, p.Model.Predicate(o.Predicate), "class "+p.Model.Nodes[o.TargetClass].Label, o.Optional, o.Align))
		}

		for _, o := range cp.BufferedObjectProps {
			target := "class " + p.Model.Nodes[o.TargetClass].Label + " (buffered)"
			props.Append(propRow(p, p.Model.Predicate(o.Predicate), target, o.Optional, o.Align))
		}

		props.Render()
	}
}

func identifierName(p *plan.Plan, cp *plan.ClassMapPlan) string {
	if cp.Subject.IDAttr < 0 {
		return "-"
	}

	name := p.Attributes[cp.Subject.IDAttr].Name
	if cp.Subject.Optional {
		name += " (optional)"
	}

	return name
}

func propRow(p *plan.Plan, predicate, target string, optional bool, aligns []alignment.Alignment) []string {
	parts := make([]string, len(aligns))
	for i, al := range aligns {
		parts[i] = al.String()
	}

	return []string{
		predicate,
		target,
		strconv.FormatBool(optional),
		alignment.Estimate(p.Attributes, aligns).String(),
		strings.Join(parts, " "),
	}
}
