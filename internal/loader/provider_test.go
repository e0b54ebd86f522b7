package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAsyncProviderLoadsFile(t *testing.T) {
	p, err := NewAsyncProvider(2)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release()

	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(cubeOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	model, err := p.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(model.Vertices) != 4 {
		t.Errorf("Expected 4 vertices, got %d", len(model.Vertices))
	}
}

func TestAsyncProviderBuiltinCapsule(t *testing.T) {
	p, err := NewAsyncProvider(1)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release()

	model, err := p.Load(context.Background(), BuiltinCapsule)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if model.SourcePath != BuiltinCapsule {
		t.Errorf("Expected builtin source path, got %s", model.SourcePath)
	}

	if _, err := p.Load(context.Background(), "builtin:teapot"); err == nil {
		t.Error("Unknown builtin should fail")
	}
}

func TestAsyncProviderPropagatesErrors(t *testing.T) {
	p, err := NewAsyncProvider(1)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release()

	if _, err := p.Load(context.Background(), filepath.Join(t.TempDir(), "nope.obj")); err == nil {
		t.Error("Missing file should fail")
	}
}

func TestAsyncProviderCancelledContext(t *testing.T) {
	p, err := NewAsyncProvider(1)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Load(ctx, BuiltinCapsule); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestAsyncProviderRecoversPanic(t *testing.T) {
	p, err := NewAsyncProvider(1)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Release()
	p.load = func(string) (*Model, error) {
		panic("corrupt mesh")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	model, err := p.Load(ctx, "broken.obj")
	if err == nil || model != nil {
		t.Fatalf("Expected a failed load, got %v, %v", model, err)
	}
	if ctx.Err() != nil {
		t.Fatalf("Load should return the panic as an error, not wait for the deadline: %v", err)
	}

	// The worker survives and serves the next load.
	p.load = p.loadNow
	if _, err := p.Load(ctx, BuiltinCapsule); err != nil {
		t.Errorf("Load after a panic failed: %v", err)
	}
}
