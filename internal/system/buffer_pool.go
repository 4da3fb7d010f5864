package system

import (
	"fmt"
	"sync"

	"github.com/ivlev/blobscan/internal/raster"
)

// GridPool recycles pixel grids per dimension to reduce GC pressure during
// batch runs where every page has the same size.
type GridPool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = &GridPool{
	pools: make(map[string]*sync.Pool),
}

// GetGrid returns a zeroed grid of the given dimensions from the pool, or
// allocates a new one.
func GetGrid(w, h int) *raster.Grid {
	return globalPool.Get(w, h)
}

// PutGrid returns a grid to the pool for reuse.
func PutGrid(g *raster.Grid) {
	globalPool.Put(g)
}

func (p *GridPool) Get(w, h int) *raster.Grid {
	key := fmt.Sprintf("%dx%d", w, h)
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return raster.NewGrid(w, h)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	g := pool.Get().(*raster.Grid)
	for i := range g.Pix {
		g.Pix[i] = 0
	}
	return g
}

func (p *GridPool) Put(g *raster.Grid) {
	if g == nil {
		return
	}
	key := fmt.Sprintf("%dx%d", g.W, g.H)
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(g)
	}
}
