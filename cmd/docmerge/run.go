package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/aerissecure/docmerge"
	"github.com/aerissecure/docmerge/batch"
	"github.com/aerissecure/docmerge/docx"
	"github.com/aerissecure/docmerge/internal/signalbroker"
	"github.com/aerissecure/docmerge/pathcache"
	"github.com/aerissecure/docmerge/render"
	"github.com/aerissecure/docmerge/report"
	"github.com/aerissecure/docmerge/xlsx"
)

const (
	spreadsheetFlag   = "spreadsheet"
	templateFlag      = "template"
	outputFlag        = "output"
	mappingFlag       = "mapping"
	sheetFlag         = "sheet"
	formatFlag        = "format"
	prefixFlag        = "prefix"
	sofficeFlag       = "soffice"
	timeoutFlag       = "timeout"
	consolidateFlag   = "consolidate"
	reportFlag        = "report"
	rememberFlag      = "remember"
	interactiveFlag   = "interactive"
	highlightFlag     = "highlight-field"
	highlightColorFlg = "highlight-color"
)

// ErrUnknownFormat is returned for an unsupported --format.
var ErrUnknownFormat = errors.New("unknown output format")

func (a *app) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate one document per spreadsheet row",
		Long: `Generate one document per spreadsheet row.

Each data row fills the template's {{Placeholder}} tokens through the column
mapping, is converted (PDF through LibreOffice, or HTML), and all outputs are
joined into All_<prefix>.<ext> at the end.

Paths not given on the command line fall back to the ones remembered from the
previous run. Press Ctrl-C once to stop after the current row, twice to abort.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd.Context(), cmd)
		},
	}

	f := cmd.Flags()
	f.StringP(spreadsheetFlag, "s", "", "spreadsheet (.xlsx) with one row per document")
	f.StringP(templateFlag, "t", "", "Word template (.docx)")
	f.StringP(outputFlag, "o", "", "output directory")
	f.StringP(mappingFlag, "m", "", "YAML file mapping placeholders to columns")
	f.String(sheetFlag, "", "worksheet to read (default first)")
	f.String(formatFlag, "pdf", "output format: pdf or html")
	f.String(prefixFlag, batch.DefaultPrefix, "output file name prefix")
	f.String(sofficeFlag, "", "LibreOffice binary (default soffice or libreoffice from PATH)")
	f.Duration(timeoutFlag, 0, "per-document conversion timeout (0 = none)")
	f.Bool(consolidateFlag, true, "join all outputs into one file")
	f.Bool(reportFlag, false, "write <prefix>_report.xlsx to the output directory")
	f.Bool(rememberFlag, true, "remember the paths for the next run")
	f.BoolP(interactiveFlag, "i", false, "read pause/resume/cancel/status commands from stdin")
	f.String(highlightFlag, docx.DefaultHighlightField, "placeholder whose value is coloured (empty disables)")
	f.String(highlightColorFlg, docx.DefaultHighlightColor, "hex colour for the highlighted placeholder")
	return cmd
}

// pick returns the first non-empty value.
func pick(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// converters returns the converter and concatenator for format.
func (a *app) converters(format string) (batch.Converter, batch.Concatenator, error) {
	switch format {
	case "pdf":
		return &render.Soffice{
			Binary:  a.v.GetString(sofficeFlag),
			Timeout: a.v.GetDuration(timeoutFlag),
			Logger:  &a.log,
		}, render.PDFMerger{}, nil
	case "html":
		return render.HTML{}, render.HTMLMerger{}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func (a *app) run(ctx context.Context, cmd *cobra.Command) error {
	cache := pathcache.New(a.stateDir())
	remembered, err := cache.Load()
	if err != nil {
		a.log.Warn().Err(err).Msg("ignoring remembered paths")
	}

	job := batch.Job{
		Spreadsheet: pick(a.v.GetString(spreadsheetFlag), remembered[pathcache.KeyExcel]),
		Template:    pick(a.v.GetString(templateFlag), remembered[pathcache.KeyTemplate]),
		OutputDir:   pick(a.v.GetString(outputFlag), remembered[pathcache.KeyOutput]),
	}
	if path := a.v.GetString(mappingFlag); path != "" {
		if job.Mapping, err = docmerge.LoadMappingFile(path); err != nil {
			return err
		}
	}

	conv, concat, err := a.converters(a.v.GetString(formatFlag))
	if err != nil {
		return err
	}
	if !a.v.GetBool(consolidateFlag) {
		concat = nil
	}

	resolver := docx.Resolver{
		HighlightField: a.v.GetString(highlightFlag),
		HighlightColor: a.v.GetString(highlightColorFlg),
	}
	sheet := a.v.GetString(sheetFlag)
	prefix := a.v.GetString(prefixFlag)

	ctrl, err := batch.New(batch.Options{
		LoadRows: func(path string) (batch.RowSource, error) {
			s, err := xlsx.Open(path, xlsx.Options{Sheet: sheet})
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		LoadTemplate: func(path string) (batch.Template, error) {
			t, err := docx.OpenTemplate(path)
			if err != nil {
				return nil, err
			}
			t.Resolver = resolver
			return t, nil
		},
		Converter:    conv,
		Concatenator: concat,
		Observer:     progressPrinter(cmd.OutOrStdout()),
		Prefix:       prefix,
		Logger:       &a.log,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := signalbroker.New()
	defer signalbroker.Stop(sigCh)
	go signalbroker.Watch(ctx, a.log, sigCh, ctrl.RequestCancel, cancel)

	if a.v.GetBool(interactiveFlag) {
		go control(ctx, a.stdin, cmd.OutOrStdout(), ctrl)
	}

	out, runErr := ctrl.Run(ctx, job)

	if runErr == nil && a.v.GetBool(rememberFlag) {
		a.remember(cache, job)
	}
	if runErr == nil && a.v.GetBool(reportFlag) {
		path := report.Path(job.OutputDir, prefix)
		if err := report.Write(path, out); err != nil {
			a.log.Error().Err(err).Msg("writing report")
		} else {
			a.log.Info().Str("path", path).Msg("report written")
		}
	}
	if runErr != nil {
		return runErr
	}

	summarize(cmd.OutOrStdout(), out)
	if out.ConsolidateErr != nil {
		return multierror.Append(out.RowErrors, out.ConsolidateErr)
	}
	return out.RowErrors
}

func (a *app) remember(cache *pathcache.Cache, job batch.Job) {
	for key, path := range map[string]string{
		pathcache.KeyExcel:    job.Spreadsheet,
		pathcache.KeyTemplate: job.Template,
		pathcache.KeyOutput:   job.OutputDir,
	} {
		if err := cache.Save(key, path); err != nil {
			a.log.Warn().Err(err).Str("key", key).Msg("remembering path")
		}
	}
}
