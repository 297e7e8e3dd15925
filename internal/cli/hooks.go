package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/expedition/pkg/observability"
)

// logHooks reports store, cache and render events at debug level.
type logHooks struct {
	logger *log.Logger
}

func registerHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetStoreHooks(h)
	observability.SetCacheHooks(h)
	observability.SetRenderHooks(h)
}

func (h logHooks) OnLoadStart(_ context.Context, backend, name string) {
	h.logger.Debug("loading", "backend", backend, "name", name)
}

func (h logHooks) OnLoadComplete(_ context.Context, backend, name string, size int, d time.Duration, err error) {
	h.complete("loaded", backend, name, size, d, err)
}

func (h logHooks) OnSaveStart(_ context.Context, backend, name string) {
	h.logger.Debug("saving", "backend", backend, "name", name)
}

func (h logHooks) OnSaveComplete(_ context.Context, backend, name string, size int, d time.Duration, err error) {
	h.complete("saved", backend, name, size, d, err)
}

func (h logHooks) complete(msg, backend, name string, size int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug(msg+" with error", "backend", backend, "name", name, "err", err)
		return
	}
	h.logger.Debug(msg, "backend", backend, "name", name, "bytes", size, "took", d.Round(time.Microsecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRenderStart(_ context.Context, format string, objects int) {
	h.logger.Debug("rendering", "format", format, "objects", objects)
}

func (h logHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("rendered", "format", format, "took", d.Round(time.Microsecond))
}
