package command

import (
	"time"

	"github.com/leengari/primitive-db/internal/domain/schema"
	"github.com/leengari/primitive-db/internal/storage/records"
)

// DefaultSlowThreshold is the duration above which a command is logged as slow
const DefaultSlowThreshold = 10 * time.Millisecond

// Command is one parsed, ready-to-run operation
type Command interface {
	Name() string
	Execute() Result
}

// Result is the uniform outcome of every command. Failures are results too;
// Execute never returns an error.
type Result struct {
	Success              bool
	Message              string
	Data                 map[string]interface{}
	Duration             time.Duration
	RequiresConfirmation bool
}

func Success(message string, data map[string]interface{}) Result {
	return Result{Success: true, Message: message, Data: data}
}

func Failure(message string) Result {
	return Result{Success: false, Message: message}
}

// Cancelled is returned when a destructive command was not confirmed
func Cancelled() Result {
	return Result{Success: false, Message: "cancelled", RequiresConfirmation: true}
}

// Catalog is the schema registry and storage the commands operate on
type Catalog interface {
	CreateTable(name string, columns []schema.Column) (*schema.Table, error)
	DropTable(name string) error
	Table(name string) (*schema.Table, error)
	ListTables() []string
	Records() records.Store
	Save() error
}

// Confirmer approves destructive actions such as drop_table and delete
type Confirmer interface {
	Confirm(action string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(action string) bool

func (f ConfirmFunc) Confirm(action string) bool {
	return f(action)
}

// AlwaysConfirm approves everything, for --yes and scripted use
var AlwaysConfirm = ConfirmFunc(func(string) bool { return true })

type Env struct {
	Confirmer     Confirmer
	SlowThreshold time.Duration
}

// Deps is embedded by every command that touches the database
type Deps struct {
	Catalog Catalog
	Env     Env
}

// run executes core behind the standard stages. Destructive commands get
// the confirmation gate with the given action text.
func (d Deps) run(name string, core Handler, confirmAction string) Result {
	stages := []Stage{ErrorBoundary()}
	if confirmAction != "" {
		stages = append(stages, Confirmation(d.Env.Confirmer, confirmAction))
	}
	stages = append(stages, Timing(d.Env.SlowThreshold))

	res, _ := Chain(name, core, stages...)()
	return res
}

// runStandalone runs commands that need no database behind the error
// boundary and timing stages.
func runStandalone(name string, core Handler) Result {
	res, _ := Chain(name, core, ErrorBoundary(), Timing(DefaultSlowThreshold))()
	return res
}
