package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Worker processes a single conversion job.
type Worker struct {
	conv  *Converter
	stats *ConversionStats
	log   *slog.Logger
}

func NewWorker(conv *Converter, stats *ConversionStats, log *slog.Logger) *Worker {
	return &Worker{
		conv:  conv,
		stats: stats,
		log:   log,
	}
}

// Process runs the full conversion pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	p := job.Profile()
	var sample Sample

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	start := time.Now()
	sh, err := ReadSheet(job.FileData(), job.Filename, p.Sheet)
	if err != nil {
		w.fail(log, job, "parsing", err)
		return
	}
	sample.Observe(PhaseParse, start)
	job.SetSheet(sh.Title)
	log.Info("parsed mind map", "sheet", sh.Title, "topics", sh.Root.Count())

	if err := ctx.Err(); err != nil {
		w.fail(log, job, "parsing", err)
		return
	}

	// Phase 2: Aggregate
	job.SetStatus(StatusConverting, "converting")
	start = time.Now()
	res, err := Aggregate(sh, p)
	if err != nil {
		w.fail(log, job, "converting", err)
		return
	}
	sample.Observe(PhaseAggregate, start)
	sample.Records, sample.Groups = res.Len(), len(res.Groups)
	job.SetCounts(res.Len(), len(res.Groups))
	log.Info("aggregated", "records", res.Len(), "groups", len(res.Groups))

	// Phase 3: Write
	job.SetStatus(StatusWriting, "writing")
	start = time.Now()
	path, err := w.conv.Write(job.Filename, res, p)
	if err != nil {
		w.fail(log, job, "writing", err)
		return
	}
	sample.Observe(PhaseWrite, start)
	job.SetOutput(path)
	job.SetFileData(nil)

	if w.stats != nil {
		w.stats.Record(sample)
	}
	log.Info("conversion complete", "output", path, "duration_ms", sample.Total().Milliseconds())
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase string, err error) {
	log.Error("conversion failed", "phase", phase, "error", err)
	job.AddError(fmt.Sprintf("%s: %s", phase, err))
	job.SetStatus(StatusFailed, phase)
}
