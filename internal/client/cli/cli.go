// Package cli implements the delphi-sync command line interface.
package cli

import (
	"context"

	"github.com/anti-elegant/Delphi-sub000/internal/client/data"
	"github.com/anti-elegant/Delphi-sub000/internal/client/iocli"
	"github.com/anti-elegant/Delphi-sub000/internal/client/storage"
	"github.com/anti-elegant/Delphi-sub000/internal/sync"
)

// authService is the slice of auth.Service the commands need.
type authService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Session(ctx context.Context) (*storage.AuthData, error)
	IsAuthenticated(ctx context.Context) bool
}

// syncEngine is the slice of sync.Engine the commands need.
type syncEngine interface {
	Sync(ctx context.Context) error
	FullSync(ctx context.Context) error
	Enabled() bool
	Status() *sync.Status
}

// changeLog reports how many local changes await upload.
type changeLog interface {
	PendingCount() int
}

type Cli struct {
	io          iocli.IO
	authService authService
	dataService data.Service
	engine      syncEngine
	changes     changeLog
}

func New(io iocli.IO, authService authService, dataService data.Service, engine syncEngine, changes changeLog) *Cli {
	return &Cli{
		io:          io,
		authService: authService,
		dataService: dataService,
		engine:      engine,
		changes:     changes,
	}
}

func (c *Cli) PrintUsage() {
	c.io.Println("Usage: delphi-sync <command> [arguments]")
	c.io.Println()
	c.io.Println("Commands:")
	c.io.Println("  register              Create an account and log in")
	c.io.Println("  login                 Log in to an existing account")
	c.io.Println("  logout                Remove the local session")
	c.io.Println("  status                Show session and sync status")
	c.io.Println("  add                   Log a new prediction")
	c.io.Println("  list                  List predictions, newest first")
	c.io.Println("  resolve <id> <correct|incorrect>")
	c.io.Println("                        Record the outcome of a prediction")
	c.io.Println("  delete <id>           Delete a prediction")
	c.io.Println("  metrics               Show accuracy metrics")
	c.io.Println("  sync                  Run an incremental sync pass")
	c.io.Println("  fullsync              Force a full reconciliation pass")
	c.io.Println("  daemon                Run the background sync scheduler")
}
