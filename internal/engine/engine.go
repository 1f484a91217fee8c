package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/google/uuid"

	"github.com/leengari/primitive-db/internal/command"
	"github.com/leengari/primitive-db/internal/config"
	"github.com/leengari/primitive-db/internal/domain/errors"
	"github.com/leengari/primitive-db/internal/parser"
	"github.com/leengari/primitive-db/internal/storage/lock"
	"github.com/leengari/primitive-db/internal/storage/manager"
	"github.com/leengari/primitive-db/internal/storage/metadata"
	"github.com/leengari/primitive-db/internal/storage/records"
)

// Engine is the main entry point for the database system
type Engine struct {
	mgr       *manager.Manager
	env       command.Env
	lock      *lock.Lock
	observers []Observer // Observers for lifecycle events
}

// New creates a new Engine instance over an already built manager
func New(mgr *manager.Manager, confirmer command.Confirmer) *Engine {
	return &Engine{
		mgr: mgr,
		env: command.Env{
			Confirmer:     confirmer,
			SlowThreshold: command.DefaultSlowThreshold,
		},
		observers: make([]Observer, 0),
	}
}

// Open wires the on-disk stores described by cfg, takes the data directory
// lock when enabled and loads the schema registry.
func Open(cfg *config.Config, confirmer command.Confirmer) (*Engine, error) {
	dataDir := cfg.Storage.DataDir
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.NewStorage("", fmt.Sprintf("failed to create data directory %s", dataDir), err)
	}

	var lk *lock.Lock
	if cfg.Storage.Lock {
		var err error
		if lk, err = lock.Acquire(dataDir); err != nil {
			return nil, err
		}
	}

	fs := osfs.New(dataDir)
	mgr := manager.New(
		metadata.NewFileStore(fs, cfg.Storage.MetaFile),
		records.NewFileStore(fs, cfg.Storage.TablesDir, records.WithTTL(cfg.Storage.CacheTTL)),
	)

	e := New(mgr, confirmer)
	e.lock = lk

	if err := e.LoadMetadata(); err != nil {
		_ = lk.Release()
		return nil, err
	}
	return e, nil
}

// Execute parses and runs one line. Every outcome, parse errors included,
// is reported through the Result.
func (e *Engine) Execute(line string) command.Result {
	execID := uuid.NewString()

	// 1. Parse
	e.notify(Event{Type: EventParseStart, ExecID: execID, Data: line})
	p := parser.New(command.Deps{Catalog: e.mgr, Env: e.env})
	var (
		cmd      command.Command
		parseErr error
	)
	parsed, _ := command.Chain("parse", func() (command.Result, error) {
		cmd, parseErr = p.Parse(line)
		return command.Success("", nil), parseErr
	}, command.ErrorBoundary(), command.Timing(e.env.SlowThreshold))()

	if !parsed.Success {
		if parseErr == nil {
			parseErr = fmt.Errorf("%s", parsed.Message)
		}
		e.notify(Event{Type: EventParseEnd, ExecID: execID, Data: parseErr})
		return parsed
	}
	if cmd == nil {
		e.notify(Event{Type: EventParseEnd, ExecID: execID})
		return parsed
	}
	e.notify(Event{Type: EventParseEnd, ExecID: execID, Data: cmd.Name()})

	// 2. Execute
	e.notify(Event{Type: EventExecStart, ExecID: execID, Data: cmd.Name()})
	res := cmd.Execute()
	e.notify(Event{Type: EventExecEnd, ExecID: execID, Data: map[string]interface{}{
		"command":  cmd.Name(),
		"success":  res.Success,
		"duration": res.Duration,
	}})

	return res
}

// LoadMetadata rebuilds the schema registry from disk
func (e *Engine) LoadMetadata() error {
	return e.mgr.Load()
}

// SaveMetadata persists the schema registry
func (e *Engine) SaveMetadata() error {
	return e.mgr.Save()
}

// SetConfirmer replaces the confirmer used for destructive commands
func (e *Engine) SetConfirmer(c command.Confirmer) {
	e.env.Confirmer = c
}

func (e *Engine) Manager() *manager.Manager {
	return e.mgr
}

// Close releases the data directory lock
func (e *Engine) Close() error {
	return e.lock.Release()
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
