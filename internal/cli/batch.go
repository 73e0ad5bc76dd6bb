package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/renjie/prism-units/internal/logger"
	"github.com/renjie/prism-units/pkg/adapters/ingest"
	"github.com/renjie/prism-units/pkg/core/domain"
)

// requestIngestor is satisfied by the CSV and JSON ingestors.
type requestIngestor interface {
	IngestBatch(ctx context.Context, file io.Reader, format string) (*domain.IngestionResult, error)
}

func batchCmd(a *app) *cobra.Command {
	var format string

	c := &cobra.Command{
		Use:   "batch FILE",
		Short: "Convert every request in a CSV (from,to,value[,precision][,id]) or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			var errs []error
			downstream := func(ctx context.Context, reqs []domain.ConversionRequest) error {
				for i := range reqs {
					if reqs[i].Precision == nil && a.cfg.DefaultPrecision != nil {
						reqs[i] = reqs[i].WithPrecision(*a.cfg.DefaultPrecision)
					}
				}
				outcomes, err := a.converter.ConvertAll(ctx, reqs)
				if err != nil {
					return err
				}
				for _, o := range outcomes {
					if o.Err != nil {
						fmt.Fprintf(out, "%s\t%s %s -> %s\terror: %v\n", o.Request.ID, o.Request.Value, o.Request.From, o.Request.To, o.Err)
						errs = append(errs, fmt.Errorf("%s: %w", o.Request.ID, o.Err))
						continue
					}
					fmt.Fprintf(out, "%s\t%s %s -> %s\t%s\n", o.Request.ID, o.Request.Value, o.Request.From, o.Request.To, o.Result)
				}
				return nil
			}

			var ing requestIngestor
			switch format {
			case "csv":
				ing = ingest.NewCsvRequestIngestor(downstream)
			case "json":
				ing = ingest.NewJsonRequestIngestor(downstream)
			default:
				return domain.NewError("batch", domain.KindInvalidConfig, path,
					fmt.Errorf("unsupported batch format %q (want csv or json)", format))
			}

			ctx := domain.NewContext(cmd.Context(), domain.BatchContext{
				Source:  domain.BatchSourceFile,
				BatchID: filepath.Base(path),
			})
			result, err := ing.IngestBatch(ctx, f, format)
			if err != nil {
				return err
			}

			for _, e := range result.Errors {
				logger.L().Warn("batch row skipped", zap.String("file", path), zap.String("error", e))
				errs = append(errs, errors.New(e))
			}
			fmt.Fprintf(out, "%d rows, %d parsed, %d skipped\n", result.Total, result.Success, result.Failed)
			return errors.Join(errs...)
		},
	}

	c.Flags().StringVarP(&format, "format", "f", "", "csv or json (default: from the file extension)")
	return c
}
