package app

import (
	"context"

	"attendance/internal/core"
	"attendance/internal/settings"
)

// Command is one user action. Dispatch runs it and then rebuilds the view.
type Command interface {
	Execute(ctx context.Context, a *App) error
}

type (
	AddPerson struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		SapID string `json:"sap_id"`

		// Added is false when the add was cancelled by a blank name.
		Added bool `json:"-"`
	}

	RemoveLast struct {
		Removed string `json:"-"`
	}

	// Clear only runs when Confirmed is set.
	Clear struct {
		Confirmed bool `json:"confirmed"`
	}

	SetAttendance struct {
		Name    string `json:"name"`
		Day     int    `json:"day"`
		Present bool   `json:"present"`
	}

	SetMetadata struct {
		Month        string `json:"month"`
		DateOfUpdate string `json:"date_of_update"`
	}

	Save struct {
		Path     string `json:"path"`
		Resolved string `json:"-"`
	}

	Load struct {
		Path     string `json:"path"`
		Resolved string `json:"-"`
	}

	ExportReport struct {
		Path     string `json:"path"`
		Resolved string `json:"-"`
	}

	UpdateSettings struct {
		Change SettingsChange
	}
)

func (c *AddPerson) Execute(_ context.Context, a *App) error {
	_, added, err := a.AddPerson(c.Name, c.Email, c.SapID)
	c.Added = added
	return err
}

func (c *RemoveLast) Execute(_ context.Context, a *App) error {
	e, err := a.RemoveLast()
	c.Removed = e.Name()
	return err
}

func (c *Clear) Execute(_ context.Context, a *App) error {
	if !c.Confirmed {
		return ErrConfirmationRequired
	}
	a.Clear()
	return nil
}

func (c *SetAttendance) Execute(_ context.Context, a *App) error {
	return a.SetAttendance(c.Name, c.Day, c.Present)
}

func (c *SetMetadata) Execute(_ context.Context, a *App) error {
	a.SetMetadata(c.Month, c.DateOfUpdate)
	return nil
}

func (c *Save) Execute(ctx context.Context, a *App) error {
	p, err := a.SaveToPath(ctx, c.Path)
	c.Resolved = p
	return err
}

func (c *Load) Execute(ctx context.Context, a *App) error {
	p, err := a.LoadFromPath(ctx, c.Path)
	c.Resolved = p
	return err
}

func (c *ExportReport) Execute(ctx context.Context, a *App) error {
	p, err := a.ExportReportToPath(ctx, c.Path)
	c.Resolved = p
	return err
}

func (c *UpdateSettings) Execute(_ context.Context, a *App) error {
	_, err := a.UpdateSettings(c.Change)
	return err
}

// Dispatch executes cmd and returns the refreshed view. The view is rebuilt
// even when cmd fails so callers always render current state.
func (a *App) Dispatch(ctx context.Context, cmd Command) (View, error) {
	err := cmd.Execute(ctx, a)
	return a.Refresh(), err
}

// PersonView is one roster row with its day flags.
type PersonView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	SapID string `json:"sap_id"`
	Days  []bool `json:"days"`
}

// View is everything a presentation layer needs to render the register.
type View struct {
	Month        string            `json:"month"`
	DateOfUpdate string            `json:"date_of_update"`
	People       []PersonView      `json:"people"`
	Summary      []core.SummaryRow `json:"summary"`
	Totals       core.Totals       `json:"totals"`
	Settings     settings.Settings `json:"settings"`
}

// Refresh builds a View from the current state.
func (a *App) Refresh() View {
	a.mu.Lock()
	defer a.mu.Unlock()
	entries := a.store.Entries()
	people := make([]PersonView, 0, len(entries))
	for _, e := range entries {
		people = append(people, PersonView{
			ID:    e.Person.ID(),
			Name:  e.Person.Name(),
			Email: e.Person.Email(),
			SapID: e.Person.SapID(),
			Days:  e.Record.Slots(),
		})
	}
	summary := core.ComputeSummary(a.store)
	return View{
		Month:        a.store.Month(),
		DateOfUpdate: a.store.DateOfUpdate(),
		People:       people,
		Summary:      summary,
		Totals:       core.Aggregate(summary),
		Settings:     a.settings.Get(),
	}
}
