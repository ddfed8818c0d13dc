package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Infernos444/insurely/pkg/lifecycle"
)

func TestStartupReadiness(t *testing.T) {
	c := lifecycle.New()

	var started atomic.Int32
	c.OnStartup(func() { started.Add(1) })
	c.OnStartup(func() { started.Add(1) })

	if c.Ready() {
		t.Error("Ready() = true before WaitForStartup")
	}

	c.WaitForStartup()

	if started.Load() != 2 {
		t.Errorf("startup hooks ran = %d, want 2", started.Load())
	}
	if !c.Ready() {
		t.Error("Ready() = false after WaitForStartup")
	}
}

func TestShutdownDrainsHooks(t *testing.T) {
	c := lifecycle.New()

	var cleaned atomic.Bool
	c.OnShutdown(func() {
		<-c.Context().Done()
		cleaned.Store(true)
	})

	if err := c.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if !cleaned.Load() {
		t.Error("shutdown hook did not run")
	}
}

func TestShutdownTimeout(t *testing.T) {
	c := lifecycle.New()

	release := make(chan struct{})
	c.OnShutdown(func() {
		<-release
	})

	if err := c.Shutdown(10 * time.Millisecond); err == nil {
		t.Error("Shutdown() with stuck hook: want timeout error")
	}
	close(release)
}

func TestContextCancelledOnShutdown(t *testing.T) {
	c := lifecycle.New()
	ctx := c.Context()

	select {
	case <-ctx.Done():
		t.Fatal("context done before shutdown")
	default:
	}

	c.Shutdown(time.Second)

	select {
	case <-ctx.Done():
	default:
		t.Error("context not cancelled after shutdown")
	}
}
