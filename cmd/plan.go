package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/afero"

	"github.com/phil-mansfield/lightcone/cosmo"
	"github.com/phil-mansfield/lightcone/errs"
	"github.com/phil-mansfield/lightcone/io"
	"github.com/phil-mansfield/lightcone/lightcone"
)

// Task is a single unit of work: one tracer class in one shell, built from
// one snapshot.
type Task struct {
	Class    int
	Shell    lightcone.Shell
	Snapshot int
}

// Plan is everything which is decided before the first task runs. Building a
// Plan reads nothing but the snapshot table.
type Plan struct {
	Oracle    *cosmo.Table
	Geometry  *lightcone.Geometry
	Shells    []lightcone.Shell
	Snapshots lightcone.SnapshotTable
	Tasks     []Task
}

// NewPlan builds the distance table, works out which shells are needed, and
// assigns a snapshot to every task. Any error here is run-wide.
func NewPlan(config *GlobalConfig, fs afero.Fs) (*Plan, error) {
	table, err := cosmo.NewTable(config.Cosmo, config.ZMaxTable, 0)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Oracle: table,
		Geometry: &lightcone.Geometry{
			BoxL: config.BoxL, Origin: config.Origin, Oracle: table,
		},
	}
	if err = p.Geometry.Validate(); err != nil {
		return nil, err
	}

	if p.Shells, err = ShellRange(config, table); err != nil {
		return nil, err
	}
	maxHigh := 0.0
	for _, sh := range p.Shells {
		maxHigh = math.Max(maxHigh, sh.High)
	}
	if err = table.Covers(maxHigh); err != nil {
		return nil, err
	}

	if !config.IsCutsky {
		p.Snapshots, err = io.ReadSnapshotTable(fs, config.FileAlist)
		if err != nil {
			return nil, err
		}
	}

	// Tracer class varies slowest so that consecutive tasks tend to share a
	// snapshot.
	for _, class := range config.GalTypes {
		for _, sh := range p.Shells {
			snap := config.SnapshotCutsky
			if !config.IsCutsky {
				if snap, err = p.NearestSnapshot(sh); err != nil {
					return nil, err
				}
			}
			p.Tasks = append(p.Tasks, Task{Class: class, Shell: sh, Snapshot: snap})
		}
	}

	return p, nil
}

// MidRedshift returns the redshift at the middle of sh.
func (p *Plan) MidRedshift(sh lightcone.Shell) (float64, error) {
	return p.Oracle.Redshift(sh.Mid() / p.Oracle.H100())
}

// NearestSnapshot returns the snapshot closest to the middle of sh.
func (p *Plan) NearestSnapshot(sh lightcone.Shell) (int, error) {
	z, err := p.MidRedshift(sh)
	if err != nil {
		return 0, err
	}
	return lightcone.NearestSnapshot(p.Snapshots, z), nil
}

// ShellRange returns the shells listed in 'shellnums', or if there aren't
// any, every shell which overlaps the distances between 'zmin' and 'zmax'.
func ShellRange(config *GlobalConfig, oracle cosmo.Oracle) ([]lightcone.Shell, error) {
	idxs := config.ShellNums
	if len(idxs) == 0 {
		rMin, err := oracle.Distance(config.ZMin)
		if err != nil {
			return nil, err
		}
		rMax, err := oracle.Distance(config.ZMax)
		if err != nil {
			return nil, err
		}

		h := oracle.H100()
		lo := int(math.Floor(rMin * h / config.ShellWidth))
		hi := int(math.Floor(rMax*h/config.ShellWidth)) + 1
		for i := lo; i <= hi; i++ {
			idxs = append(idxs, i)
		}
	}

	shells := make([]lightcone.Shell, len(idxs))
	for i, idx := range idxs {
		if idx < 0 {
			return nil, errs.ErrConfig.Wrap(fmt.Sprintf(
				"The 'shellnums' variable contains the negative shell %d.", idx,
			))
		}
		shells[i] = lightcone.ShellBounds(idx, config.ShellWidth)
	}
	return shells, nil
}
