package loader

import (
	"context"
	"fmt"
	"strings"

	"LoomWalker/internal/logger"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// BuiltinCapsule is a model path that resolves to a generated capsule
// instead of a file.
const BuiltinCapsule = "builtin:capsule"

// Provider yields renderable models. Load may block; callers that must not
// block run it from their own goroutine.
type Provider interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, path string) (*Model, error)

func (f ProviderFunc) Load(ctx context.Context, path string) (*Model, error) {
	return f(ctx, path)
}

// CapsuleSize is used for BuiltinCapsule requests.
type CapsuleSize struct {
	Radius float32
	Height float32
}

// AsyncProvider loads models on a bounded worker pool.
type AsyncProvider struct {
	pool               *ants.Pool
	load               func(path string) (*Model, error)
	RecalculateNormals bool
	Capsule            CapsuleSize
}

type loadResult struct {
	model *Model
	err   error
}

// NewAsyncProvider starts a pool with the given number of workers.
func NewAsyncProvider(workers int) (*AsyncProvider, error) {
	pool, err := ants.NewPool(max(workers, 1))
	if err != nil {
		return nil, fmt.Errorf("loader pool: %w", err)
	}
	p := &AsyncProvider{
		pool:    pool,
		Capsule: CapsuleSize{Radius: 0.4, Height: 1.8},
	}
	p.load = p.loadNow
	return p, nil
}

// Load schedules the load on the pool and waits for it or for ctx.
func (p *AsyncProvider) Load(ctx context.Context, path string) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan loadResult, 1)
	err := p.pool.Submit(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("Model loader worker panic", zap.String("path", path), zap.Any("panic", r))
				done <- loadResult{err: fmt.Errorf("load %s: panic: %v", path, r)}
			}
		}()
		m, err := p.load(path)
		done <- loadResult{model: m, err: err}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule load %s: %w", path, err)
	}

	select {
	case r := <-done:
		if r.err != nil {
			logger.Log.Error("Model load failed", zap.String("path", path), zap.Error(r.err))
			return nil, r.err
		}
		logger.Log.Info("Model loaded",
			zap.String("path", path),
			zap.Int("vertices", len(r.model.Vertices)))
		return r.model, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *AsyncProvider) loadNow(path string) (*Model, error) {
	if strings.HasPrefix(path, "builtin:") {
		if path != BuiltinCapsule {
			return nil, fmt.Errorf("unknown builtin model %q", path)
		}
		return NewCapsuleModel("character", p.Capsule.Radius, p.Capsule.Height, 16, 4), nil
	}
	return LoadModel(path, p.RecalculateNormals)
}

// Running reports the number of loads in flight.
func (p *AsyncProvider) Running() int {
	return p.pool.Running()
}

// Release stops the pool. Pending loads still complete.
func (p *AsyncProvider) Release() {
	p.pool.Release()
}
