package lightcone

// ShellCatalog is the finished catalog of one tracer class in one shell.
type ShellCatalog struct {
	Shell Shell
	Records
	// NBox is the number of tracers of this class in the simulation box.
	NBox int
	// Visited and Culled count the replicas which were projected and the
	// replicas which were skipped by the corner test.
	Visited, Culled int
}

// NGalBox returns the number of tracers which landed in the shell, summed
// over all replicas.
func (cat *ShellCatalog) NGalBox() int { return cat.Records.Len() }

// Assembler builds shell catalogs. Like Projector, it must not be shared
// between goroutines.
type Assembler struct {
	geom *Geometry
	proj *Projector
}

// NewAssembler returns an Assembler for g, or an error if g is invalid.
func NewAssembler(g *Geometry) (*Assembler, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Assembler{geom: g, proj: NewProjector(g)}, nil
}

// Geometry returns the geometry the Assembler was built with.
func (a *Assembler) Geometry() *Geometry { return a.geom }

// Assemble projects t through every replica which may intersect sh and
// concatenates the results in replica enumeration order.
func (a *Assembler) Assemble(t *Tracers, sh Shell) (*ShellCatalog, error) {
	offsets, culled := Replicas(sh, a.geom.BoxL, a.geom.Origin)
	cat := &ShellCatalog{
		Shell: sh, NBox: t.Len(), Visited: len(offsets), Culled: culled,
	}

	for _, off := range offsets {
		if _, err := a.proj.Project(t, off, sh, &cat.Records); err != nil {
			return nil, err
		}
	}

	return cat, nil
}
