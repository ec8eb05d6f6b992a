package batch

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"document-fill-backend/internal/models"
	"document-fill-backend/internal/repository"
	"document-fill-backend/internal/services/fill"
)

// Runner loads a job's file, template and mapping from the database,
// drives the processor, and persists the job as it progresses.
type Runner struct {
	files     *repository.FileRepository
	templates *repository.TemplateRepository
	mappings  *repository.MappingRepository
	jobs      *repository.JobRepository
	outputDir string
	log       *logrus.Logger
}

func NewRunner(
	files *repository.FileRepository,
	templates *repository.TemplateRepository,
	mappings *repository.MappingRepository,
	jobs *repository.JobRepository,
	outputDir string,
	log *logrus.Logger,
) *Runner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{
		files:     files,
		templates: templates,
		mappings:  mappings,
		jobs:      jobs,
		outputDir: outputDir,
		log:       log,
	}
}

// CreateJob records a fresh pending job for the given inputs.
func (r *Runner) CreateJob(fileID, templateID, mappingID uuid.UUID) (*models.Job, error) {
	job := &models.Job{
		ID:         uuid.New(),
		FileID:     fileID,
		TemplateID: templateID,
		MappingID:  mappingID,
		Status:     models.JobStatusPending,
	}
	if err := r.jobs.Create(job); err != nil {
		return nil, err
	}
	return job, nil
}

// Run executes one batch job. Counters are not reset: re-running a job
// that already ran accumulates counts, so callers wanting accurate
// totals must create a fresh job.
func (r *Runner) Run(jobID uuid.UUID, strategy fill.MissingValueStrategy) error {
	job, err := r.jobs.GetByID(jobID)
	if err != nil {
		return fmt.Errorf("job not found: %s", jobID)
	}

	file, err := r.files.GetByID(job.FileID)
	if err != nil {
		return fmt.Errorf("file not found: %s", job.FileID)
	}
	template, err := r.templates.GetByID(job.TemplateID)
	if err != nil {
		return fmt.Errorf("template not found: %s", job.TemplateID)
	}
	mapping, err := r.mappings.GetByID(job.MappingID)
	if err != nil {
		return fmt.Errorf("mapping not found: %s", job.MappingID)
	}

	processor := NewProcessor(r.outputDir, r.log).WithProgress(func(j *models.Job) {
		if err := r.jobs.Save(j); err != nil {
			r.log.WithError(err).WithField("job_id", j.ID).Error("failed to persist job progress")
		}
	})

	_, err = processor.ProcessBatch(file.FilePath, template.FilePath, mapping, job, strategy)
	// Persist whatever state the processor left the job in, including
	// the failed-with-message case.
	if saveErr := r.jobs.Save(job); saveErr != nil {
		r.log.WithError(saveErr).WithField("job_id", job.ID).Error("failed to persist job state")
	}
	return err
}
