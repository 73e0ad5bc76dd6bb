package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/renjie/prism-units/pkg/adapters/quarantine"
	"github.com/renjie/prism-units/pkg/core/domain"
	"github.com/renjie/prism-units/pkg/core/services"
)

func validateCmd(a *app) *cobra.Command {
	var quarantineOut string

	c := &cobra.Command{
		Use:   "validate [UNIT...]",
		Short: "Validate unit strings (the configured known units when none are given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			units, source := args, domain.BatchSourceCLI
			if len(units) == 0 {
				units, source = a.cfg.KnownUnits, domain.BatchSourceConfig
			}

			path := quarantineOut
			if path == "" {
				path = a.cfg.QuarantineFile
			}
			conv := a.converter
			if path != "" {
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					return err
				}
				store, err := quarantine.OpenJSONLStore(path)
				if err != nil {
					return err
				}
				defer store.Close()
				conv = a.withQuarantine(store)
			}

			ctx := domain.NewContext(cmd.Context(), domain.BatchContext{
				TraceID: uuid.NewString(),
				Source:  source,
			})
			report, err := conv.ValidateAll(ctx, units)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var errs []error
			for _, r := range report.Results {
				if r.Valid {
					fmt.Fprintf(out, "ok\t%s\t%s\n", r.Raw, r.Normalized)
					continue
				}
				fmt.Fprintf(out, "FAIL\t%s\t%s\t%s\n", r.Raw, r.Normalized, r.Kind)
				errs = append(errs, fmt.Errorf("%s: %s", r.Raw, r.Reason))
			}
			fmt.Fprintf(out, "%d units, %d invalid (batch %s)\n", len(report.Results), report.Invalid, report.BatchID)
			return errors.Join(errs...)
		},
	}

	c.Flags().StringVarP(&quarantineOut, "quarantine-out", "q", "", "append invalid units as JSON lines to this file")
	return c
}

// withQuarantine returns a converter sharing a's settings that also persists quarantine records.
func (a *app) withQuarantine(store *quarantine.JSONLStore) *services.UnitConverter {
	return a.converter.With(services.WithQuarantineRepository(store))
}
