// Package app is the application context handed to presentation code. It
// owns the attendance store and the settings, and routes document I/O
// through the configured backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"attendance/internal/codec"
	"attendance/internal/core"
	"attendance/internal/log"
	"attendance/internal/settings"
	"attendance/internal/sheets"
)

// Document kinds carried by DocumentSaved events.
const (
	KindAttendance = "attendance"
	KindReport     = "report"
)

// DefaultExtension is appended to paths that have none.
const DefaultExtension = ".xlsx"

var (
	ErrInvalidPath          = errors.New("invalid document path")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Publisher is notified after a document has been written.
type Publisher interface {
	PublishDocumentSaved(ctx context.Context, path, kind string) error
}

// Options configure New. Documents is required; every other field has a
// default.
type Options struct {
	Store     *core.Store
	Settings  *settings.Store
	Documents sheets.Document
	Publisher Publisher
	Now       func() time.Time
	Logger    *log.Logger
}

// App serialises every operation behind one mutex, so the store is only ever
// touched by one caller at a time.
type App struct {
	mu        sync.Mutex
	store     *core.Store
	settings  *settings.Store
	docs      sheets.Document
	publisher Publisher
	now       func() time.Time
	logger    *log.Logger
	events    *log.StructuredLogger
}

func New(opts Options) (*App, error) {
	if opts.Documents == nil {
		return nil, errors.New("app: document backend is required")
	}
	a := &App{
		store:     opts.Store,
		settings:  opts.Settings,
		docs:      opts.Documents,
		publisher: opts.Publisher,
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.logger == nil {
		a.logger = log.New(log.DefaultConfig())
	}
	a.logger = a.logger.WithComponent(log.ComponentRegister)
	a.events = log.NewStructuredLogger(a.logger)
	if a.settings == nil {
		a.settings = settings.New(a.now(), settings.DocumentsDir())
	}
	if a.store == nil {
		a.store = core.NewStore()
	}
	if a.store.Month() == "" && a.store.DateOfUpdate() == "" {
		a.store.SetMetadata(a.settings.DefaultMonth(), a.now().Format("2006-01-02"))
	}
	return a, nil
}

// AddPerson appends a person. A blank name is a cancelled add: added is false
// and err is nil.
func (a *App) AddPerson(name, email, sapID string) (core.RosterEntry, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, added, err := a.store.AddPerson(name, email, sapID)
	if added {
		a.logger.Debug("Person added", log.FieldPerson, e.Name(), log.FieldAttendees, a.store.Len())
	}
	return e, added, err
}

func (a *App) RemoveLast() (core.RosterEntry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	e, err := a.store.RemoveLast()
	if err == nil {
		a.logger.Debug("Person removed", log.FieldPerson, e.Name(), log.FieldAttendees, a.store.Len())
	}
	return e, err
}

func (a *App) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store.Clear()
	a.logger.Debug("Roster cleared")
}

func (a *App) SetAttendance(name string, day int, present bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.store.SetAttendance(name, day, present)
}

func (a *App) SetMetadata(month, dateOfUpdate string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store.SetMetadata(month, dateOfUpdate)
}

// ComputeSummary recomputes the summary from the current store.
func (a *App) ComputeSummary() []core.SummaryRow {
	a.mu.Lock()
	defer a.mu.Unlock()
	return core.ComputeSummary(a.store)
}

// Report renders the plain-text overall report dated now.
func (a *App) Report() string {
	return core.FormatReport(a.ComputeSummary(), a.now())
}

// ResolvePath turns a user supplied path into the document path: relative
// paths are placed under the default save directory and a missing extension
// becomes DefaultExtension.
func (a *App) ResolvePath(path string) (string, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(a.settings.DefaultSavePath(), p)
	}
	if filepath.Ext(p) == "" {
		p += DefaultExtension
	}
	return filepath.Clean(p), nil
}

// SaveToPath writes the attendance sheet and returns the resolved path. The
// store is never modified.
func (a *App) SaveToPath(ctx context.Context, path string) (string, error) {
	resolved, err := a.ResolvePath(path)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	g := codec.EncodeAttendance(a.store)
	n := a.store.Len()
	a.mu.Unlock()

	if err := a.docs.WriteDocument(ctx, resolved, g); err != nil {
		a.events.LogError(ctx, "Save failed", err, log.ComponentRegister, log.OpSave, log.NewFields().WithDocument(resolved, KindAttendance, ""))
		return resolved, fmt.Errorf("save %s: %w", resolved, err)
	}
	a.events.LogDocumentWritten(ctx, log.OpSave, resolved, KindAttendance, n)
	a.publish(ctx, resolved, KindAttendance)
	return resolved, nil
}

// LoadFromPath replaces the store with the document at path. On any read or
// decode failure the store keeps its previous content.
func (a *App) LoadFromPath(ctx context.Context, path string) (string, error) {
	resolved, err := a.ResolvePath(path)
	if err != nil {
		return "", err
	}
	g, err := a.docs.ReadDocument(ctx, resolved)
	if err != nil {
		a.events.LogError(ctx, "Load failed", err, log.ComponentRegister, log.OpLoad, log.NewFields().WithDocument(resolved, KindAttendance, ""))
		return resolved, fmt.Errorf("load %s: %w", resolved, err)
	}
	loaded, err := codec.DecodeAttendance(g)
	if err != nil {
		a.events.LogError(ctx, "Load failed", err, log.ComponentCodec, log.OpLoad, log.NewFields().WithDocument(resolved, KindAttendance, ""))
		return resolved, fmt.Errorf("load %s: %w", resolved, err)
	}

	a.mu.Lock()
	a.store.ReplaceWith(loaded)
	n := a.store.Len()
	a.mu.Unlock()
	a.logger.InfoContext(ctx, "Attendance loaded", log.FieldDocumentPath, resolved, log.FieldAttendees, n)
	return resolved, nil
}

// ExportReportToPath writes the summary report layout to path.
func (a *App) ExportReportToPath(ctx context.Context, path string) (string, error) {
	resolved, err := a.ResolvePath(path)
	if err != nil {
		return "", err
	}
	rows := a.ComputeSummary()
	g := codec.EncodeReport(rows, a.now())
	if err := a.docs.WriteDocument(ctx, resolved, g); err != nil {
		a.events.LogError(ctx, "Export failed", err, log.ComponentRegister, log.OpExport, log.NewFields().WithDocument(resolved, KindReport, ""))
		return resolved, fmt.Errorf("export %s: %w", resolved, err)
	}
	a.events.LogDocumentWritten(ctx, log.OpExport, resolved, KindReport, len(rows))
	a.publish(ctx, resolved, KindReport)
	return resolved, nil
}

func (a *App) publish(ctx context.Context, path, kind string) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.PublishDocumentSaved(ctx, path, kind); err != nil {
		a.logger.WarnContext(ctx, "Failed to publish document saved event",
			log.FieldDocumentPath, path, log.FieldDocumentKind, kind, log.FieldError, err)
	}
}

func (a *App) Settings() settings.Settings {
	return a.settings.Get()
}

// SettingsChange lists the options to update; nil fields are left alone.
type SettingsChange struct {
	DefaultMonth    *string `json:"default_month,omitempty"`
	DefaultSavePath *string `json:"default_save_path,omitempty"`
	Theme           *string `json:"theme,omitempty"`
}

// UpdateSettings applies c. An invalid theme rejects the whole change.
func (a *App) UpdateSettings(c SettingsChange) (settings.Settings, error) {
	var theme settings.Theme
	if c.Theme != nil {
		t, err := settings.ParseTheme(*c.Theme)
		if err != nil {
			return a.settings.Get(), err
		}
		theme = t
	}
	if c.DefaultMonth != nil {
		a.settings.SetDefaultMonth(*c.DefaultMonth)
	}
	if c.DefaultSavePath != nil {
		a.settings.SetDefaultSavePath(*c.DefaultSavePath)
	}
	if theme != "" {
		if err := a.settings.SetTheme(theme); err != nil {
			return a.settings.Get(), err
		}
	}
	return a.settings.Get(), nil
}
