package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"attendance/internal/app"
	"attendance/internal/core"
	"attendance/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().
		Field("status", "ok").
		Field("timestamp", time.Now().Format(time.RFC3339)).
		Field("uptime", time.Since(s.startedAt).Round(time.Second).String()).
		Write(w)
}

// handleReady checks that the document backend answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"register": "ok"}
	status := "ready"
	code := http.StatusOK

	if s.lister == nil {
		checks["documents"] = "not_checked"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if _, err := s.lister.ListDocuments(ctx); err != nil {
			checks["documents"] = "failed: " + err.Error()
			status = "not_ready"
			code = http.StatusServiceUnavailable
		} else {
			checks["documents"] = "ok"
		}
	}

	NewJSONResponse().Status(code).Field("status", status).Field("checks", checks).Write(w)
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Field("view", s.app.Refresh()).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rows := s.app.ComputeSummary()
	NewJSONResponse().
		Field("summary", rows).
		Field("totals", core.Aggregate(rows)).
		Write(w)
}

// handleReport returns the plain-text overall report.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, s.app.Report())
}

func (s *Server) handleAddPerson(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	cmd := &app.AddPerson{Name: p.Get("name"), Email: p.Get("email"), SapID: p.Get("sap_id")}
	s.dispatch(w, r, log.OpAddPerson, cmd, func(b *JSONResponseBuilder) {
		b.Field("added", cmd.Added)
		if cmd.Added {
			b.Status(http.StatusCreated).Event("person:added", map[string]string{"name": cmd.Name})
		}
	})
}

func (s *Server) handleRemoveLast(w http.ResponseWriter, r *http.Request) {
	cmd := &app.RemoveLast{}
	s.dispatch(w, r, log.OpRemoveLast, cmd, func(b *JSONResponseBuilder) {
		b.Field("removed", cmd.Removed).Event("person:removed", map[string]string{"name": cmd.Removed})
	})
}

// handleClear empties the roster; it requires ?confirm=true.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	cmd := &app.Clear{Confirmed: queryBool(r, "confirm")}
	s.dispatch(w, r, log.OpClear, cmd, func(b *JSONResponseBuilder) {
		b.Event("roster:cleared", nil)
	})
}

func (s *Server) handleSetAttendance(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	day, err := p.GetInt("day")
	if err != nil {
		ErrorResponse(err).Write(w)
		return
	}
	present, err := p.GetBool("present")
	if err != nil {
		ErrorResponse(err).Write(w)
		return
	}
	cmd := &app.SetAttendance{Name: p.Get("name"), Day: day, Present: present}
	s.dispatch(w, r, log.OpSetAttendance, cmd, func(b *JSONResponseBuilder) {
		b.Event("attendance:changed", map[string]any{"name": cmd.Name, "day": day, "present": present})
	})
}

// handleSetMetadata updates month and date of update; an absent field keeps
// its current value.
func (s *Server) handleSetMetadata(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	current := s.app.Refresh()
	cmd := &app.SetMetadata{Month: current.Month, DateOfUpdate: current.DateOfUpdate}
	if p.Has("month") {
		cmd.Month = p.Get("month")
	}
	if p.Has("date_of_update") {
		cmd.DateOfUpdate = p.Get("date_of_update")
	}
	s.dispatch(w, r, log.OpSetMetadata, cmd, func(b *JSONResponseBuilder) {
		b.Event("metadata:changed", nil)
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if s.lister == nil {
		NewJSONResponse().
			Status(http.StatusNotImplemented).
			Error(errors.New("document backend cannot list documents")).
			Write(w)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()
	paths, err := s.lister.ListDocuments(ctx)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List documents failed", log.FieldError, err)
		ErrorResponse(err).Write(w)
		return
	}
	NewJSONResponse().Field("documents", paths).Write(w)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	cmd := &app.Save{Path: p.Get("path")}
	s.dispatch(w, r, log.OpSave, cmd, func(b *JSONResponseBuilder) {
		b.Field("path", cmd.Resolved).Event("document:saved", map[string]string{"path": cmd.Resolved})
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	cmd := &app.Load{Path: p.Get("path")}
	s.dispatch(w, r, log.OpLoad, cmd, func(b *JSONResponseBuilder) {
		b.Field("path", cmd.Resolved).Event("document:loaded", map[string]string{"path": cmd.Resolved})
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	cmd := &app.ExportReport{Path: p.Get("path")}
	s.dispatch(w, r, log.OpExport, cmd, func(b *JSONResponseBuilder) {
		b.Field("path", cmd.Resolved).Event("report:exported", map[string]string{"path": cmd.Resolved})
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Field("settings", s.app.Settings()).Write(w)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	cmd := &app.UpdateSettings{Change: app.SettingsChange{
		DefaultMonth:    p.OptionalString("default_month"),
		DefaultSavePath: p.OptionalString("default_save_path"),
		Theme:           p.OptionalString("theme"),
	}}
	s.dispatch(w, r, log.OpSettings, cmd, func(b *JSONResponseBuilder) {
		b.Event("settings:changed", nil)
	})
}

func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		ErrorResponse(err).Write(w)
		return nil, false
	}
	return p, true
}

// dispatch runs cmd and writes the refreshed view. onSuccess decorates the
// response when cmd succeeded.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, op string, cmd app.Command, onSuccess func(*JSONResponseBuilder)) {
	ctx := r.Context()
	view, err := s.app.Dispatch(ctx, cmd)
	b := NewJSONResponse().View(view)
	if err != nil {
		code := statusFor(err)
		logger := log.FromContext(ctx)
		if code >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "Command failed", log.FieldOperation, op, log.FieldError, err)
		} else {
			logger.InfoContext(ctx, "Command rejected", log.FieldOperation, op, log.FieldError, err)
		}
		b.Status(code).Error(err).Write(w)
		return
	}
	if onSuccess != nil {
		onSuccess(b)
	}
	b.Write(w)
}
