package hailstone

import "sync"

// EnginePool recycles Engine instances that share one configuration.
// Filling an engine's length cache is the expensive part of
// construction, so workloads that scan repeatedly with the same
// ceiling should pool engines rather than rebuild them.
//
// Engines are immutable, so no reset happens between uses.
type EnginePool struct {
	pool      sync.Pool
	maxLength uint64
	opts      []Option
}

// NewEnginePool creates a pool whose engines are built for the given
// ceiling and options. The configuration is validated eagerly by
// building the first engine, which is placed in the pool.
func NewEnginePool(maxLength uint64, opts ...Option) (*EnginePool, error) {
	e, err := NewEngine(maxLength, opts...)
	if err != nil {
		return nil, err
	}

	p := &EnginePool{
		maxLength: maxLength,
		opts:      opts,
	}
	p.pool.Put(e)

	return p, nil
}

// Get retrieves an Engine from the pool, building a new one if the
// pool is empty.
func (p *EnginePool) Get() (*Engine, error) {
	if v := p.pool.Get(); v != nil {
		return v.(*Engine), nil
	}

	return NewEngine(p.maxLength, p.opts...)
}

// Put returns an Engine to the pool for reuse. The engine must not be
// used after being returned.
func (p *EnginePool) Put(e *Engine) {
	p.pool.Put(e)
}
