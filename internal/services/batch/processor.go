package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"document-fill-backend/internal/models"
	"document-fill-backend/internal/services/fill"
	"document-fill-backend/internal/services/tabular"
)

var ErrOutputWrite = errors.New("failed to write output")

// ParseFunc yields the ordered data rows of a tabular file. Injected so
// the processor never cares how rows are produced.
type ParseFunc func(path string) ([]map[string]any, []string, error)

// RenderFunc renders one data row against the template. The default is
// the fill package's renderer.
type RenderFunc func(templatePath string, dataRow map[string]any, entries []models.MappingEntry) ([]byte, error)

// Processor drives one batch fill: parse the data file, render the
// template once per row, persist outputs, and keep the job's counters
// and status up to date. A single row's failure never aborts the batch;
// infrastructure failures (parse, output write) do.
type Processor struct {
	outputDir string
	parse     ParseFunc
	render    RenderFunc
	onUpdate  func(*models.Job)
	log       *logrus.Logger
}

// NewProcessor builds a processor. outputDir may be empty, in which
// case outputs are only returned in memory.
func NewProcessor(outputDir string, log *logrus.Logger) *Processor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Processor{
		outputDir: outputDir,
		parse:     tabular.ParseFile,
		log:       log,
	}
}

// WithParser overrides the tabular parser, mainly for tests.
func (p *Processor) WithParser(parse ParseFunc) *Processor {
	p.parse = parse
	return p
}

// WithRenderer overrides the row renderer.
func (p *Processor) WithRenderer(render RenderFunc) *Processor {
	p.render = render
	return p
}

// WithProgress registers a callback invoked on status transitions and
// every 100 processed rows, so callers can persist the job as it moves.
func (p *Processor) WithProgress(onUpdate func(*models.Job)) *Processor {
	p.onUpdate = onUpdate
	return p
}

func (p *Processor) notify(job *models.Job) {
	if p.onUpdate != nil {
		p.onUpdate(job)
	}
}

// ProcessBatch runs the full per-row loop for one job, mutating the
// job's counters and status as it goes. It returns the rendered bytes
// keyed by row index.
//
// If the data file or template path is missing the job is left in its
// current (pending) state: the existence check runs before the
// transition to processing. That ordering is load-bearing for callers
// that retry on missing inputs, so it stays.
func (p *Processor) ProcessBatch(filePath, templatePath string, m *models.Mapping, job *models.Job, strategy fill.MissingValueStrategy) (map[int][]byte, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("file not found: %s", filePath)
	}
	if _, err := os.Stat(templatePath); err != nil {
		return nil, fmt.Errorf("template not found: %s", templatePath)
	}

	job.SetStatus(models.JobStatusProcessing)
	p.notify(job)

	rows, _, err := p.parse(filePath)
	if err != nil {
		job.SetError(fmt.Sprintf("Failed to parse file: %v", err))
		return nil, fmt.Errorf("file parsing failed: %w", err)
	}

	// The parsed row count is authoritative, whatever the caller set.
	job.TotalRows = len(rows)

	filler, err := fill.NewFiller(strategy)
	if err != nil {
		job.SetError(fmt.Sprintf("Failed to initialize template filler: %v", err))
		return nil, fmt.Errorf("template filler initialization failed: %w", err)
	}
	render := p.render
	if render == nil {
		render = filler.Fill
	}

	entries, err := m.Entries()
	if err != nil {
		job.SetError(fmt.Sprintf("Invalid column mappings: %v", err))
		return nil, fmt.Errorf("invalid column mappings: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"job_id":     job.ID,
		"total_rows": job.TotalRows,
	}).Info("batch processing started")

	outputs := make(map[int][]byte, len(rows))
	rowErrors := make(map[string]string)

	for index, row := range rows {
		output, err := render(templatePath, row, entries)
		if err != nil {
			job.IncrementFailed()
			rowErrors[strconv.Itoa(index)] = err.Error()
			p.log.WithFields(logrus.Fields{
				"job_id": job.ID,
				"row":    index,
			}).WithError(err).Warn("row render failed")
		} else {
			outputs[index] = output

			if p.outputDir != "" {
				if err := p.saveOutput(job.ID.String(), index, output); err != nil {
					// A storage error is infrastructural, not data
					// quality: abort instead of tolerating it.
					job.SetError(err.Error())
					p.setRowErrors(job, rowErrors)
					return nil, err
				}
			}

			job.IncrementProcessed()
		}

		// Failed rows count toward the cadence too, so a long streak
		// of bad rows still persists progress.
		if (job.ProcessedRows+job.FailedRows)%100 == 0 {
			p.notify(job)
		}
	}

	p.setRowErrors(job, rowErrors)

	switch {
	case job.FailedRows == 0:
		job.SetStatus(models.JobStatusCompleted)
	case job.ProcessedRows > 0:
		// Partial success still completes; callers inspect the
		// counters to detect failed rows.
		job.SetStatus(models.JobStatusCompleted)
	default:
		job.SetError(fmt.Sprintf("All %d rows failed to process", job.TotalRows))
	}

	p.notify(job)

	p.log.WithFields(logrus.Fields{
		"job_id":    job.ID,
		"status":    job.Status,
		"processed": job.ProcessedRows,
		"failed":    job.FailedRows,
	}).Info("batch processing finished")

	return outputs, nil
}

// saveOutput writes one rendered row under outputDir/<jobID>/. The
// extension is fixed to .docx regardless of template type.
func (p *Processor) saveOutput(jobID string, rowIndex int, content []byte) error {
	jobDir := filepath.Join(p.outputDir, jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}

	outputPath := filepath.Join(jobDir, fmt.Sprintf("output_%d.docx", rowIndex))
	if err := os.WriteFile(outputPath, content, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	return nil
}

func (p *Processor) setRowErrors(job *models.Job, rowErrors map[string]string) {
	if len(rowErrors) == 0 {
		return
	}
	raw, err := json.Marshal(rowErrors)
	if err != nil {
		return
	}
	job.RowErrors = raw
}
