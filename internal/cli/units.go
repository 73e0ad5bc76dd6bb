package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/inf.v0"
)

func normalizeCmd(a *app) *cobra.Command {
	var verbose bool

	c := &cobra.Command{
		Use:   "normalize UNIT...",
		Short: "Strip annotations and rewrite unit strings into canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, raw := range args {
				n := a.converter.Sanitize(raw)
				if !verbose {
					fmt.Fprintln(out, n.Normalized)
					continue
				}
				rules := "-"
				if len(n.Applied) > 0 {
					rules = strings.Join(n.Applied, ",")
				}
				fmt.Fprintf(out, "%s\tstripped=%s\tnormalized=%s\trules=%s\n", raw, n.Stripped, n.Normalized, rules)
			}
			return nil
		},
	}

	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the stripped form and the rules applied")
	return c
}

func describeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe UNIT",
		Short: "Describe a unit relative to SI base units (cm -> 0.01 m)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.converter.Describe(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

func categoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "category UNIT",
		Short: "Print the physical quantity category of a unit (deg -> Plane Angle)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.converter.Category(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func convertCmd(a *app) *cobra.Command {
	var precision int

	c := &cobra.Command{
		Use:   "convert FROM TO VALUE",
		Short: "Convert a decimal value between two units",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, value := args[0], args[1], args[2]

			var p *int
			switch {
			case cmd.Flags().Changed("precision"):
				p = &precision
			case a.cfg.DefaultPrecision != nil:
				p = a.cfg.DefaultPrecision
			}

			var (
				res *inf.Dec
				err error
			)
			if p != nil {
				res, err = a.converter.ConvertWithPrecision(from, to, value, *p)
			} else {
				res, err = a.converter.Convert(from, to, value)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
			return nil
		},
	}

	c.Flags().IntVarP(&precision, "precision", "p", 0, "round half-up to this many fractional digits")
	return c
}
