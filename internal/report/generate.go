package report

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/skybi/session-report/internal/user"
)

// SessionLookup retrieves the active sessions of a single user
type SessionLookup interface {
	ActiveSessions(ctx context.Context, userID string) ([]user.Session, error)
}

// Stats summarizes a generated report
type Stats struct {
	Users   int
	Rows    int
	Skipped int
}

// Generator turns a user list into report rows
type Generator struct {
	Sessions SessionLookup
	Logger   zerolog.Logger

	// Progress is updated after every processed user if set
	Progress *Progress
}

// Generate looks up the sessions of every user in order and writes one row per user that has at least one
// session. Users without sessions are skipped without a row. The generated rows are returned as well.
func (generator *Generator) Generate(ctx context.Context, users []user.User, sink Sink) ([]Row, *Stats, error) {
	stats := &Stats{Users: len(users)}
	generator.Progress.begin(len(users))

	rows := make([]Row, 0, len(users))
	for _, obj := range users {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		sessions, err := generator.Sessions.ActiveSessions(ctx, obj.ID)
		if err != nil {
			return nil, nil, err
		}
		generator.Progress.advance()

		latest, ok := user.LatestSession(sessions)
		if !ok {
			stats.Skipped++
			continue
		}

		row := Row{
			UserID:               obj.ID,
			Name:                 obj.Name,
			Email:                obj.Email,
			TenantID:             obj.TenantID,
			LastSessionCreatedAt: latest.CreatedAt,
		}
		if err := sink.WriteRow(row); err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
		stats.Rows++
	}

	generator.Logger.Info().Int("users", stats.Users).Int("rows", stats.Rows).Int("skipped", stats.Skipped).Msg("report generated")
	return rows, stats, nil
}
