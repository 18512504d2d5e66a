package io

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/astrogo/fitsio"
	"github.com/spf13/afero"

	"github.com/phil-mansfield/lightcone/lightcone"
)

// TableName is the EXTNAME of the binary table in a shell file.
const TableName = "LIGHTCONE"

// ShellFileMode is the permission of published shell files.
const ShellFileMode = 0644

var shellColumns = []fitsio.Column{
	{Name: "RA", Format: "E", Unit: "deg"},
	{Name: "DEC", Format: "E", Unit: "deg"},
	{Name: "Z", Format: "D"},
	{Name: "DZ", Format: "E"},
	{Name: "VEL_LOS", Format: "E", Unit: "km/s"},
}

// ShellFile is a shell catalog along with the metadata stored in the header
// of its file.
type ShellFile struct {
	Class, Snapshot int
	Shell           lightcone.Shell
	// NGalBox is the number of rows and NBox is the number of tracers of
	// this class in the box.
	NGalBox, NBox int
	lightcone.Records
}

// NewShellFile wraps cat for output.
func NewShellFile(cat *lightcone.ShellCatalog, class, snap int) *ShellFile {
	return &ShellFile{
		Class: class, Snapshot: snap, Shell: cat.Shell,
		NGalBox: cat.NGalBox(), NBox: cat.NBox, Records: cat.Records,
	}
}

// WriteShell writes sf to fname as a FITS file with an empty primary image
// and a single binary table. The file is written under a temporary name in
// the same directory and renamed into place once complete, so fname either
// does not exist or holds a whole shell.
func WriteShell(afs afero.Fs, fname string, sf *ShellFile) (err error) {
	dir, base := filepath.Split(fname)
	if dir == "" {
		dir = "."
	}
	tmp, err := afero.TempFile(afs, dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", fname, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			afs.Remove(tmpName)
		}
	}()

	if err = encodeShell(tmp, sf); err != nil {
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	if err = afs.Chmod(tmpName, ShellFileMode); err != nil {
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	if err = afs.Rename(tmpName, fname); err != nil {
		return fmt.Errorf("publishing %s: %w", fname, err)
	}
	return nil
}

func encodeShell(w io.Writer, sf *ShellFile) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return err
	}

	prim := fitsio.NewImage(8, nil)
	err = prim.Header().Append(
		fitsio.Card{Name: "NGALBOX", Value: sf.NGalBox,
			Comment: "number of rows in the shell"},
		fitsio.Card{Name: "NBOX", Value: sf.NBox,
			Comment: "tracers of this class in the box"},
		fitsio.Card{Name: "GALTYPE", Value: sf.Class,
			Comment: "tracer class"},
		fitsio.Card{Name: "SHELLNUM", Value: sf.Shell.Index,
			Comment: "shell index"},
		fitsio.Card{Name: "CHILOW", Value: sf.Shell.Low,
			Comment: "inner comoving distance [Mpc/h]"},
		fitsio.Card{Name: "CHIHIGH", Value: sf.Shell.High,
			Comment: "outer comoving distance [Mpc/h]"},
		fitsio.Card{Name: "SNAPNUM", Value: sf.Snapshot,
			Comment: "snapshot the tracers were taken from"},
	)
	if err != nil {
		prim.Close()
		f.Close()
		return err
	}
	if err = f.Write(prim); err != nil {
		prim.Close()
		f.Close()
		return err
	}
	if err = prim.Close(); err != nil {
		f.Close()
		return err
	}

	tbl, err := fitsio.NewTable(TableName, shellColumns, fitsio.BINARY_TBL)
	if err != nil {
		f.Close()
		return err
	}
	for i := 0; i < sf.Len(); i++ {
		ra, dec, z := sf.RA[i], sf.Dec[i], sf.Z[i]
		dz, vlos := sf.DZ[i], sf.VelLOS[i]
		if err = tbl.Write(&ra, &dec, &z, &dz, &vlos); err != nil {
			tbl.Close()
			f.Close()
			return err
		}
	}
	if err = f.Write(tbl); err != nil {
		tbl.Close()
		f.Close()
		return err
	}
	if err = tbl.Close(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// ReadShell reads a file written by WriteShell.
func ReadShell(afs afero.Fs, fname string) (*ShellFile, error) {
	r, err := afs.Open(fname)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	defer f.Close()

	if len(f.HDUs()) < 2 {
		return nil, fmt.Errorf("%s has %d HDUs, not 2", fname, len(f.HDUs()))
	}

	sf := &ShellFile{}
	hdr := f.HDU(0).Header()
	ints := []struct {
		name string
		out  *int
	}{
		{"NGALBOX", &sf.NGalBox}, {"NBOX", &sf.NBox}, {"GALTYPE", &sf.Class},
		{"SHELLNUM", &sf.Shell.Index}, {"SNAPNUM", &sf.Snapshot},
	}
	for _, card := range ints {
		x, err := cardFloat(hdr, card.name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
		*card.out = int(x)
	}
	if sf.Shell.Low, err = cardFloat(hdr, "CHILOW"); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if sf.Shell.High, err = cardFloat(hdr, "CHIHIGH"); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}

	tbl, ok := f.HDU(1).(*fitsio.Table)
	if !ok {
		return nil, fmt.Errorf("the second HDU of %s is not a table", fname)
	}
	rows, err := tbl.Read(0, tbl.NumRows())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	defer rows.Close()

	sf.Records.Grow(int(tbl.NumRows()))
	for rows.Next() {
		var (
			ra, dec, dz, vlos float32
			z                 float64
		)
		if err = rows.Scan(&ra, &dec, &z, &dz, &vlos); err != nil {
			return nil, fmt.Errorf("reading %s: %w", fname, err)
		}
		sf.Append(ra, dec, z, dz, vlos)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}

	return sf, nil
}

func cardFloat(hdr *fitsio.Header, name string) (float64, error) {
	card := hdr.Get(name)
	if card == nil {
		return 0, fmt.Errorf("header keyword %s is missing", name)
	}

	switch v := card.Value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return 0, fmt.Errorf("header keyword %s has the value %v (%T)",
		name, card.Value, card.Value)
}
