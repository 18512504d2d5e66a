/*package memo keeps the state lightcone shares between tasks: parsed tracer
catalogs and the manifest describing an output directory.*/
package memo

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/phil-mansfield/lightcone/io"
)

// Loader reads the tracer catalog in the given file.
type Loader func(fname string) (*io.Catalog, error)

// Catalogs memoizes parsed tracer catalogs by file name. A catalog is shared
// by every tracer class and every shell which uses its snapshot, so holding
// on to the last few avoids re-parsing large text files. Concurrent requests
// for a catalog which isn't cached share a single load. Failed loads are not
// cached. Catalogs is safe for concurrent use.
type Catalogs struct {
	load  Loader
	cache *lru.Cache[string, *io.Catalog]
	group singleflight.Group
	loads atomic.Int64
}

// NewCatalogs returns a memo holding up to size catalogs. If size is zero,
// every request goes to load.
func NewCatalogs(size int, load Loader) (*Catalogs, error) {
	m := &Catalogs{load: load}
	if size > 0 {
		cache, err := lru.New[string, *io.Catalog](size)
		if err != nil {
			return nil, err
		}
		m.cache = cache
	}
	return m, nil
}

// Catalog returns the catalog in fname.
func (m *Catalogs) Catalog(fname string) (*io.Catalog, error) {
	if m.cache != nil {
		if cat, ok := m.cache.Get(fname); ok {
			return cat, nil
		}
	}

	v, err, _ := m.group.Do(fname, func() (interface{}, error) {
		if m.cache != nil {
			if cat, ok := m.cache.Get(fname); ok {
				return cat, nil
			}
		}

		m.loads.Add(1)
		cat, err := m.load(fname)
		if err != nil {
			return nil, err
		}
		if m.cache != nil {
			m.cache.Add(fname, cat)
		}
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*io.Catalog), nil
}

// Loads returns the number of times a catalog has been read from disk.
func (m *Catalogs) Loads() int { return int(m.loads.Load()) }
