package health

import (
	"context"
	"database/sql"

	"hiring-backend/internal/shared/storage/db"
)

// Service reports process health and which collaborators are configured.
type Service struct {
	Env       string
	Provider  string
	Validator bool
	DB        *sql.DB
}

// NewService constructs a new health service. database may be nil.
func NewService(env, provider string, validator bool, database *sql.DB) *Service {
	return &Service{Env: env, Provider: provider, Validator: validator, DB: database}
}

// Status is the health payload.
type Status struct {
	OK        bool   `json:"ok"`
	Env       string `json:"env"`
	Provider  string `json:"provider"`
	Validator bool   `json:"validator"`
	Database  string `json:"database"`
}

// Status reports ok unless a configured database fails to ping.
func (s *Service) Status(ctx context.Context) Status {
	out := Status{OK: true, Env: s.Env, Provider: s.Provider, Validator: s.Validator, Database: "disabled"}
	if s.DB == nil {
		return out
	}
	if err := db.Ping(ctx, s.DB); err != nil {
		out.OK = false
		out.Database = "unreachable"
		return out
	}
	out.Database = "ok"
	return out
}
