package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/phil-mansfield/lightcone/cmd/env"
	"github.com/phil-mansfield/lightcone/cmd/memo"
	"github.com/phil-mansfield/lightcone/errs"
	"github.com/phil-mansfield/lightcone/io"
	"github.com/phil-mansfield/lightcone/lightcone"
	"github.com/phil-mansfield/lightcone/logging"
)

// Outcome is the final state of a Task.
type Outcome int

const (
	// NotRun tasks were never started because the run stopped first.
	NotRun Outcome = iota
	// Skipped tasks already had an output file.
	Skipped
	// Missing tasks had no tracer catalog.
	Missing
	// Failed tasks had a malformed tracer catalog.
	Failed
	// Done tasks wrote their shell.
	Done
)

var outcomeNames = [...]string{"not_run", "skipped", "missing_input", "failed", "done"}

func (o Outcome) String() string { return outcomeNames[o] }

// Summary counts the outcomes of every task in a run.
type Summary [len(outcomeNames)]int

func (s Summary) String() string {
	return fmt.Sprintf("%d done, %d skipped, %d missing input, %d failed, "+
		"%d not run", s[Done], s[Skipped], s[Missing], s[Failed], s[NotRun])
}

// Runner builds every shell in a Plan. Tasks share nothing but read-only
// state and the catalog memo, so they can run in any order.
type Runner struct {
	config     *GlobalConfig
	plan       *Plan
	fs         afero.Fs
	env        *env.Environment
	catalogs   *memo.Catalogs
	dispatcher Dispatcher
	metrics    *Metrics
	log        *zap.Logger
}

// NewRunner plans a run. Nothing is written until Run is called.
func NewRunner(config *GlobalConfig, fs afero.Fs, log *zap.Logger) (*Runner, error) {
	plan, err := NewPlan(config, fs)
	if err != nil {
		return nil, err
	}

	e, err := env.New(fs, config.DirGcat, config.InputNameTemplate,
		config.DirOut, config.LightconeNameTemplate)
	if err != nil {
		return nil, errs.ErrConfig.Wrap(err.Error())
	}
	if err = validateDir(fs, config.DirGcat); err != nil {
		return nil, errs.ErrConfig.Wrapf("The 'dir_gcat' variable is set "+
			"to '%s', but %s", config.DirGcat, err.Error())
	}

	r := &Runner{
		config: config, plan: plan, fs: fs, env: e,
		dispatcher: NewDispatcher(config.Workers),
		metrics:    NewMetrics(),
		log:        log,
	}

	r.catalogs, err = memo.NewCatalogs(config.CatalogCache,
		func(fname string) (*io.Catalog, error) {
			r.metrics.CatalogLoads.Inc()
			return io.ReadCatalog(fs, fname)
		})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Plan returns the tasks the Runner will execute.
func (r *Runner) Plan() *Plan { return r.plan }

// Metrics returns the metrics collected by the Runner.
func (r *Runner) Metrics() *Metrics { return r.metrics }

// Run executes every task. Missing catalogs are logged and skipped. Malformed
// catalogs stop only their own task, but make Run return an error once every
// other task has finished. Any other error stops the run.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	summary := Summary{}

	if err := r.fs.MkdirAll(r.config.DirOut, 0755); err != nil {
		return summary, err
	}
	if err := memo.CheckManifest(r.fs, r.env.MemoDir, r.config.Manifest()); err != nil {
		return summary, err
	}

	r.log.Info("starting run",
		zap.Int("tasks", len(r.plan.Tasks)),
		zap.Int("shells", len(r.plan.Shells)),
		zap.Ints("galtypes", r.config.GalTypes),
		zap.Int("workers", r.config.Workers),
	)

	outcomes := make([]Outcome, len(r.plan.Tasks))
	err := r.dispatcher.Dispatch(ctx, len(r.plan.Tasks),
		func(ctx context.Context, i int) error {
			var err error
			outcomes[i], err = r.runTask(ctx, r.plan.Tasks[i])
			if err != nil && !errs.TaskLocal(err) {
				return err
			}
			return nil
		})

	for _, o := range outcomes {
		summary[o]++
	}
	r.log.Info("finished run", zap.Stringer("summary", summary))

	if r.config.MetricsFile != "" {
		if merr := r.metrics.WriteTextfile(r.config.MetricsFile); merr != nil {
			r.log.Warn("couldn't write metrics", zap.Error(merr))
		}
	}

	if err != nil {
		return summary, err
	}
	if summary[Failed] > 0 {
		return summary, errs.ErrMalformedCatalog.Wrapf(
			"%d of %d tasks had malformed catalogs",
			summary[Failed], len(r.plan.Tasks))
	}
	return summary, nil
}

// complete returns errs.ErrAlreadyComplete if fname exists.
func (r *Runner) complete(fname string) error {
	exists, err := afero.Exists(r.fs, fname)
	if err != nil {
		return err
	}
	if exists {
		return errs.ErrAlreadyComplete.Wrap(fname)
	}
	return nil
}

func (r *Runner) runTask(ctx context.Context, task Task) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return NotRun, err
	}
	start := time.Now()

	log := r.log.With(
		zap.Int("shellnum", task.Shell.Index),
		zap.Int("galtype", task.Class),
	)
	fname := r.env.ShellName(task.Class, task.Shell.Index)

	if err := r.complete(fname); errors.Is(err, errs.ErrAlreadyComplete) {
		log.Debug("shell already complete", zap.String("file", fname))
		r.metrics.Tasks.WithLabelValues(Skipped.String()).Inc()
		return Skipped, nil
	} else if err != nil {
		return NotRun, err
	}

	n := lightcone.Tiling(task.Shell, r.config.BoxL, r.config.Origin)
	log.Info("generating shell",
		zap.String("tiling", fmt.Sprintf("%dx%dx%d", n[0], n[1], n[2])),
		zap.Float64("chi_low", task.Shell.Low),
		zap.Float64("chi_high", task.Shell.High),
		zap.Int("snapshot", task.Snapshot),
		zap.Bool("cutsky", r.config.IsCutsky),
	)

	catName := r.env.CatalogName(task.Snapshot)
	cat, err := r.catalogs.Catalog(catName)
	switch {
	case errors.Is(err, errs.ErrMissingInput):
		log.Warn("couldn't open catalog", zap.String("file", catName),
			zap.Int("snapshot", task.Snapshot))
		r.metrics.Tasks.WithLabelValues(Missing.String()).Inc()
		return Missing, err
	case errors.Is(err, errs.ErrMalformedCatalog):
		log.Error("malformed catalog", zap.Error(err))
		r.metrics.Tasks.WithLabelValues(Failed.String()).Inc()
		return Failed, err
	case err != nil:
		return NotRun, err
	}

	tracers := cat.Tracers(task.Class)
	log.Debug("loaded tracers", zap.Int("nbox", tracers.Len()))

	asm, err := lightcone.NewAssembler(r.plan.Geometry)
	if err != nil {
		return NotRun, err
	}
	shell, err := asm.Assemble(tracers, task.Shell)
	if err != nil {
		return NotRun, err
	}

	if err = r.fs.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return NotRun, err
	}
	err = io.WriteShell(r.fs, fname,
		io.NewShellFile(shell, task.Class, task.Snapshot))
	if err != nil {
		return NotRun, err
	}

	elapsed := time.Since(start)
	r.metrics.Tasks.WithLabelValues(Done.String()).Inc()
	r.metrics.Tracers.Add(float64(shell.NGalBox()))
	r.metrics.ReplicasVisited.Add(float64(shell.Visited))
	r.metrics.ReplicasCulled.Add(float64(shell.Culled))
	r.metrics.TaskDuration.Observe(elapsed.Seconds())

	log.Info("wrote shell",
		zap.String("file", fname),
		zap.Int("ngalbox", shell.NGalBox()),
		zap.Int("nbox", shell.NBox),
		zap.Int("replicas", shell.Visited),
		zap.Int("culled", shell.Culled),
		zap.Duration("elapsed", elapsed),
		logging.Mem(r.config.LogMode),
	)
	return Done, nil
}

// validateDir returns an error if there are any problems with the given
// directory.
func validateDir(fs afero.Fs, name string) error {
	if info, err := fs.Stat(name); err != nil {
		return fmt.Errorf("%s does not exist.", name)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory.", name)
	}
	return nil
}
