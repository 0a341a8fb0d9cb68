package templating

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/CTAG07/pagegen/pkg/attendee"
)

// TemplateManager owns the page template loaded from disk together with the
// configuration it was parsed with. It is responsible for loading, parsing
// and executing the template. All methods are concurrent-safe.
type TemplateManager struct {
	logger       *slog.Logger
	config       *TemplateConfig
	template     *Template
	templatePath string
	mu           sync.RWMutex
}

// NewTemplateManager creates a TemplateManager for the template file at
// templatePath and performs an initial Refresh. A nil config selects
// DefaultConfig. An unreadable template is returned as an error.
func NewTemplateManager(logger *slog.Logger, config *TemplateConfig, templatePath string) (*TemplateManager, error) {
	if config == nil {
		def := DefaultConfig()
		config = &def
	}

	tm := &TemplateManager{
		logger:       logger,
		config:       config,
		templatePath: templatePath,
	}

	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	logger.Info("Template manager initialized", "path", templatePath)
	return tm, nil
}

// SetConfig replaces the marker configuration. It takes effect on the next Refresh.
func (tm *TemplateManager) SetConfig(config *TemplateConfig) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.config = config
}

// Refresh reads the template file again and re-parses it with the current config.
func (tm *TemplateManager) Refresh() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.logger.Debug("Loading template file...", "path", tm.templatePath)
	src, err := os.ReadFile(tm.templatePath)
	if err != nil {
		tm.logger.Error("failed to read template file", "path", tm.templatePath, "error", err)
		return fmt.Errorf("failed to read template: %w", err)
	}

	t := Parse(string(src), *tm.config)
	if !t.HasRegion() {
		// Rendering still works, the region is just left as-is.
		tm.logger.Warn("Template has no accommodation block",
			"path", tm.templatePath,
			"open_marker", t.config.OpenMarker,
			"close_marker", t.config.CloseMarker)
	}

	tm.template = t
	tm.logger.Debug("Loaded template file", "bytes", len(src))
	return nil
}

// Render returns the page for a.
func (tm *TemplateManager) Render(a attendee.Attendee) string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.template.Render(a)
}

// Execute renders the page for a, writing the output to w.
func (tm *TemplateManager) Execute(w io.Writer, a attendee.Attendee) error {
	_, err := io.WriteString(w, tm.Render(a))
	return err
}

// GetConfig returns a copy of the current configuration.
// This mainly exists for concurrency-safety reasons.
func (tm *TemplateManager) GetConfig() TemplateConfig {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return *tm.config
}

// GetTemplatePath returns the file the manager loads its template from.
func (tm *TemplateManager) GetTemplatePath() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templatePath
}
