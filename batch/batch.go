// Package batch drives a merge run: for every spreadsheet row it renders the
// template, converts the result, and finally consolidates the outputs into
// a single file. A run can be paused, resumed and cancelled from another
// goroutine while it is in progress.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/aerissecure/docmerge"
)

// DefaultPrefix names output files when Options.Prefix is empty.
const DefaultPrefix = "Receipt"

// RowSource yields spreadsheet rows in file order.
type RowSource interface {
	Len() int
	Row(i int) (docmerge.Row, error)
}

// Template renders one row into a document at dst.
type Template interface {
	Render(row docmerge.Row, m docmerge.Mapping, dst string) error
}

// Converter turns a rendered document into the final per-row output.
type Converter interface {
	// Ext is the output file extension without the dot.
	Ext() string
	Convert(ctx context.Context, src, dst string) error
}

// Concatenator joins the per-row outputs, in order, into dst.
type Concatenator interface {
	Concatenate(ctx context.Context, srcs []string, dst string) error
}

// RowLoader opens the spreadsheet at path.
type RowLoader func(path string) (RowSource, error)

// TemplateLoader opens the template at path.
type TemplateLoader func(path string) (Template, error)

// Job names the inputs of one run.
type Job struct {
	Spreadsheet string
	Template    string
	OutputDir   string
	Mapping     docmerge.Mapping // nil selects docmerge.DefaultMapping
}

func (j Job) validate() error {
	var missing []string
	if j.Spreadsheet == "" {
		missing = append(missing, "spreadsheet")
	}
	if j.Template == "" {
		missing = append(missing, "template")
	}
	if j.OutputDir == "" {
		missing = append(missing, "output directory")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrConfig, missing)
	}
	return nil
}

// Options configures a Controller.
type Options struct {
	LoadRows     RowLoader
	LoadTemplate TemplateLoader
	Converter    Converter
	Concatenator Concatenator // nil disables consolidation
	Observer     Observer
	Prefix       string
	Logger       *zerolog.Logger
}

// RowResult records what happened to one row.
type RowResult struct {
	Row    int // 1-based
	Output string
	Err    error
}

// Outcome summarises a finished run.
type Outcome struct {
	State          State
	Total          int
	Processed      int
	Outputs        []string // successful per-row outputs, in row order
	Rows           []RowResult
	Consolidated   string // path of the combined output, empty if none
	RowErrors      error  // *multierror.Error of per-row conversion failures
	ConsolidateErr error
}

// Result is delivered by Start when the run ends.
type Result struct {
	Outcome Outcome
	Err     error
}

// Controller runs jobs one at a time.
type Controller struct {
	opts Options
	log  zerolog.Logger
	obs  Observer

	gate      *gate
	cancelled atomic.Bool
	running   atomic.Bool

	mu      sync.Mutex
	state   State
	current int
	total   int
	status  string
	outputs []string
}

// New returns a Controller. LoadRows, LoadTemplate and Converter are required.
func New(opts Options) (*Controller, error) {
	if opts.LoadRows == nil || opts.LoadTemplate == nil || opts.Converter == nil {
		return nil, errors.New("batch: LoadRows, LoadTemplate and Converter are required")
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	c := &Controller{
		opts:   opts,
		log:    zerolog.Nop(),
		obs:    nullObserver{},
		gate:   newGate(),
		status: "Ready",
	}
	if opts.Logger != nil {
		c.log = opts.Logger.With().Str("component", "batch").Logger()
	}
	if opts.Observer != nil {
		c.obs = opts.Observer
	}
	return c, nil
}

// Start runs job on a new goroutine. The channel receives exactly one Result.
func (c *Controller) Start(ctx context.Context, job Job) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		out, err := c.Run(ctx, job)
		ch <- Result{Outcome: out, Err: err}
	}()
	return ch
}

// Run processes job and blocks until it completes, is cancelled or fails.
// A cancelled run returns a nil error; the Outcome's State tells them apart.
func (c *Controller) Run(ctx context.Context, job Job) (Outcome, error) {
	if err := job.validate(); err != nil {
		if !c.running.Load() {
			c.setStatus(StateFailed, "Error during generation.")
		}
		c.log.Error().Err(err).Msg("invalid job")
		c.emit(Event{Type: EventFailed, Err: err, Message: err.Error()})
		return Outcome{State: StateFailed}, err
	}
	if !c.running.CompareAndSwap(false, true) {
		return Outcome{State: c.State()}, ErrRunning
	}
	defer c.running.Store(false)

	c.reset()
	if job.Mapping == nil {
		job.Mapping = docmerge.DefaultMapping
	}
	log := c.log.With().Str("spreadsheet", job.Spreadsheet).Str("template", job.Template).Logger()

	rows, err := c.opts.LoadRows(job.Spreadsheet)
	if err != nil {
		return c.fail(fmt.Errorf("%w: spreadsheet %s: %w", ErrLoad, job.Spreadsheet, err))
	}
	tpl, err := c.opts.LoadTemplate(job.Template)
	if err != nil {
		return c.fail(fmt.Errorf("%w: template %s: %w", ErrLoad, job.Template, err))
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return c.fail(fmt.Errorf("%w: %w", ErrFilesystem, err))
	}

	total := rows.Len()
	c.mu.Lock()
	c.total = total
	c.mu.Unlock()
	log.Info().Int("rows", total).Str("output", job.OutputDir).Msg("batch started")
	c.emit(Event{Type: EventStarted, Total: total, Message: "Generating..."})

	out := Outcome{Total: total}
	var rowErrs *multierror.Error

	for i := 0; i < total; i++ {
		if c.stopRequested(ctx) {
			break
		}
		if !c.gate.isOpen() {
			c.setStatus(StatePaused, "Paused...")
			log.Debug().Int("row", i+1).Msg("waiting for resume")
		}
		if err := c.gate.wait(ctx); err != nil {
			break
		}
		// cancel forces a resume; don't start another row in that case
		if c.stopRequested(ctx) {
			break
		}
		c.setStatus(StateRunning, "Generating...")

		index := i + 1
		row, err := rows.Row(i)
		if err != nil {
			return c.fail(fmt.Errorf("%w: row %d: %w", ErrLoad, index, err))
		}

		res, err := c.processRow(ctx, tpl, row, job, index)
		if err != nil {
			return c.fail(err)
		}
		out.Rows = append(out.Rows, res)
		if res.Err != nil {
			rowErrs = multierror.Append(rowErrs, fmt.Errorf("row %d: %w", index, res.Err))
			log.Warn().Err(res.Err).Int("row", index).Msg("conversion failed")
			c.emit(Event{Type: EventRowFailed, Row: index, Total: total, Err: res.Err, Message: res.Err.Error()})
		} else {
			c.mu.Lock()
			c.outputs = append(c.outputs, res.Output)
			c.mu.Unlock()
			log.Debug().Int("row", index).Str("output", res.Output).Msg("row done")
			c.emit(Event{Type: EventRowDone, Row: index, Total: total, Path: res.Output})
		}
		c.advance()
	}

	c.mu.Lock()
	out.Processed = c.current
	out.Outputs = append([]string(nil), c.outputs...)
	c.mu.Unlock()
	out.RowErrors = rowErrs.ErrorOrNil()

	out.State = StateCompleted
	if out.Processed < total {
		out.State = StateCancelled
	}

	c.consolidate(ctx, job, &out)

	switch out.State {
	case StateCancelled:
		c.setStatus(StateCancelled, "Cancelled")
		log.Info().Int("processed", out.Processed).Int("rows", total).Msg("batch cancelled")
		c.emit(Event{Type: EventCancelled, Row: out.Processed, Total: total, Path: out.Consolidated, Message: "Cancelled"})
	default:
		c.setStatus(StateCompleted, "Completed")
		log.Info().Int("rows", total).Int("failed", len(out.Rows)-len(out.Outputs)).Msg("batch completed")
		c.emit(Event{Type: EventCompleted, Row: out.Processed, Total: total, Path: out.Consolidated, Message: "Completed"})
	}
	return out, nil
}

// processRow renders and converts one row. A conversion failure is recorded
// in the RowResult; any other error is fatal for the run.
func (c *Controller) processRow(ctx context.Context, tpl Template, row docmerge.Row, job Job, index int) (RowResult, error) {
	res := RowResult{Row: index}
	prefix := c.opts.Prefix
	tmp := filepath.Join(job.OutputDir, fmt.Sprintf("%s_%d_modified.docx", prefix, index))
	dst := filepath.Join(job.OutputDir, fmt.Sprintf("%s_%d.%s", prefix, index, c.opts.Converter.Ext()))

	if err := tpl.Render(row, job.Mapping, tmp); err != nil {
		return res, fmt.Errorf("%w: row %d: %w", ErrRender, index, err)
	}

	convErr := c.opts.Converter.Convert(ctx, tmp, dst)
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("%w: removing %s: %w", ErrFilesystem, tmp, err)
	}
	if convErr != nil {
		res.Err = convErr
		return res, nil
	}
	res.Output = dst
	return res, nil
}

func (c *Controller) consolidate(ctx context.Context, job Job, out *Outcome) {
	if c.opts.Concatenator == nil || len(out.Outputs) == 0 {
		return
	}
	dst := filepath.Join(job.OutputDir, fmt.Sprintf("All_%s.%s", c.opts.Prefix, c.opts.Converter.Ext()))
	if err := c.opts.Concatenator.Concatenate(ctx, out.Outputs, dst); err != nil {
		out.ConsolidateErr = err
		c.log.Error().Err(err).Str("output", dst).Msg("consolidation failed")
		c.emit(Event{Type: EventConsolidateFailed, Total: out.Total, Path: dst, Err: err, Message: err.Error()})
		return
	}
	out.Consolidated = dst
	c.log.Info().Int("files", len(out.Outputs)).Str("output", dst).Msg("consolidated")
	c.emit(Event{Type: EventConsolidated, Total: out.Total, Path: dst})
}

func (c *Controller) fail(err error) (Outcome, error) {
	c.setStatus(StateFailed, "Error during generation.")
	c.log.Error().Err(err).Msg("batch failed")

	c.mu.Lock()
	out := Outcome{
		State:     StateFailed,
		Total:     c.total,
		Processed: c.current,
		Outputs:   append([]string(nil), c.outputs...),
	}
	c.mu.Unlock()

	c.emit(Event{Type: EventFailed, Total: out.Total, Err: err, Message: err.Error()})
	return out, err
}

func (c *Controller) stopRequested(ctx context.Context) bool {
	return c.cancelled.Load() || ctx.Err() != nil
}

// reset clears per-run state. A pending pause survives so a batch paused
// before it starts waits at the first row.
func (c *Controller) reset() {
	c.cancelled.Store(false)
	c.mu.Lock()
	c.state = StateRunning
	c.current = 0
	c.total = 0
	c.status = "Generating..."
	c.outputs = nil
	c.mu.Unlock()
}

func (c *Controller) advance() {
	c.mu.Lock()
	c.current++
	c.mu.Unlock()
}

func (c *Controller) setStatus(s State, status string) {
	c.mu.Lock()
	c.state = s
	c.status = status
	c.mu.Unlock()
}

// RequestPause asks the worker to stop before the next row. The row in
// flight finishes first.
func (c *Controller) RequestPause() {
	if !c.gate.close() {
		return
	}
	c.mu.Lock()
	if c.state == StateRunning {
		c.state = StatePaused
	}
	c.status = "Paused..."
	c.mu.Unlock()
	c.log.Info().Msg("pause requested")
	c.emit(Event{Type: EventPaused, Message: "Paused..."})
}

// RequestResume lets a paused worker continue.
func (c *Controller) RequestResume() {
	if !c.gate.release() {
		return
	}
	c.mu.Lock()
	if c.state == StatePaused {
		c.state = StateRunning
	}
	c.status = "Resuming..."
	c.mu.Unlock()
	c.log.Info().Msg("resume requested")
	c.emit(Event{Type: EventResumed, Message: "Resuming..."})
}

// RequestCancel stops the run before the next row. It also resumes a paused
// worker so the cancellation is observed.
func (c *Controller) RequestCancel() {
	if c.cancelled.Swap(true) {
		return
	}
	c.log.Info().Msg("cancel requested")
	c.emit(Event{Type: EventCancelRequested, Message: "Cancelling..."})
	c.RequestResume()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Progress returns a snapshot of the run.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Progress{Current: c.current, Total: c.total, Status: c.status, State: c.state}
}

// Outputs returns the per-row outputs written so far, in row order.
func (c *Controller) Outputs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.outputs...)
}

func (c *Controller) emit(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	c.obs.OnEvent(e)
}
