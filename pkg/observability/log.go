package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug log line. The CLI installs it for
// all categories when --verbose is set.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnImportStart(_ context.Context, dir string) {
	h.logger.Debug("import start", "dir", dir)
}

func (h *LogHooks) OnImportComplete(_ context.Context, dir string, imported, skipped int, d time.Duration, err error) {
	h.logger.Debug("import complete", "dir", dir, "imported", imported, "skipped", skipped, "duration", d.Round(time.Millisecond), "err", err)
}

func (h *LogHooks) OnExportStart(_ context.Context, fontID string, formats []string) {
	h.logger.Debug("export start", "font", fontID, "formats", formats)
}

func (h *LogHooks) OnExportComplete(_ context.Context, fontID string, formats []string, glyphs int, d time.Duration, err error) {
	h.logger.Debug("export complete", "font", fontID, "formats", formats, "glyphs", glyphs, "duration", d.Round(time.Millisecond), "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "duration", d.Round(time.Microsecond))
}

var (
	_ BuildHooks  = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ ServerHooks = (*LogHooks)(nil)
)
