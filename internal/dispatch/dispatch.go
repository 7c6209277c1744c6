// Package dispatch parses and executes xvc command lines against a
// session's project root and captures their output as text.
//
// Every call runs two goroutines: one executes the command (checkout,
// engine, git automation) and sends severity-tagged lines into a bounded
// channel, the other drains the channel into the result text. The call
// returns once both finish.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/xvc-go/xvcgo/internal/cli"
	"github.com/xvc-go/xvcgo/internal/engine"
	"github.com/xvc-go/xvcgo/internal/logging"
	"github.com/xvc-go/xvcgo/internal/output"
	"github.com/xvc-go/xvcgo/internal/project"
)

// ErrAutomation wraps failures of the post-command git automation.
var ErrAutomation = errors.New("git automation failed")

// Automation performs the git side effects around a command.
type Automation interface {
	CheckoutRef(ctx context.Context, root *project.Root, ref string, sink output.Sink) error
	Sync(ctx context.Context, root *project.Root, cmd *cli.Command, sink output.Sink) error
}

// AutomationPolicy decides what an automation failure does to the call.
type AutomationPolicy int

const (
	// FailOnAutomationError returns the failure as the call's error.
	FailOnAutomationError AutomationPolicy = iota

	// ReportAutomationError writes it as an error line like any other
	// command failure.
	ReportAutomationError
)

// ParsePolicy maps "fail" and "report" to a policy.
func ParsePolicy(s string) (AutomationPolicy, error) {
	switch s {
	case "", "fail":
		return FailOnAutomationError, nil
	case "report":
		return ReportAutomationError, nil
	}
	return 0, fmt.Errorf("unknown automation policy %q", s)
}

// Outcome classifies how a call ended. Public callers only see text;
// Outcome lets tests and wrappers tell the cases apart.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeParseFailed
	OutcomeRequiresProject
	OutcomeEngineFailed
	OutcomeAutomationFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeParseFailed:
		return "parse failed"
	case OutcomeRequiresProject:
		return "requires project"
	case OutcomeEngineFailed:
		return "engine failed"
	case OutcomeAutomationFailed:
		return "automation failed"
	}
	return "unknown"
}

// Result is the outcome of one dispatched command line.
type Result struct {
	// Output is the collected text, already filtered by verbosity.
	Output string

	// Root is the project root after the call.
	Root *project.Root

	Outcome Outcome

	// Err is the failure behind a non-OK Outcome.
	Err error
}

// Config wires a Dispatcher.
type Config struct {
	Parser   cli.Parser
	Executor engine.Executor

	// Automation runs --from-ref checkouts and post-command git sync. Nil
	// disables both.
	Automation Automation
	Policy     AutomationPolicy

	// Bound is the output channel capacity. Zero means output.DefaultBound.
	Bound int

	Logger *slog.Logger
}

// Dispatcher runs command lines.
type Dispatcher struct {
	parser     cli.Parser
	executor   engine.Executor
	automation Automation
	policy     AutomationPolicy
	bound      int
	logger     *slog.Logger
}

// New returns a Dispatcher for cfg. Parser defaults to the cobra grammar
// and Executor to the xvc binary in PATH.
func New(cfg Config) *Dispatcher {
	d := &Dispatcher{
		parser:     cfg.Parser,
		executor:   cfg.Executor,
		automation: cfg.Automation,
		policy:     cfg.Policy,
		bound:      cfg.Bound,
		logger:     logging.OrDiscard(cfg.Logger),
	}
	if d.parser == nil {
		d.parser = cli.NewParser()
	}
	if d.executor == nil {
		d.executor = engine.NewBinary(engine.WithLogger(d.logger))
	}
	return d
}

// Dispatch parses tokens and runs them against state. Init holds the
// state's write lock for the whole run and installs the new root; every
// other command runs on a snapshot. The returned error is non-nil only
// for automation failures under FailOnAutomationError.
func (d *Dispatcher) Dispatch(ctx context.Context, state *project.State, tokens []string) (Result, error) {
	cmd, failed := d.parse(tokens)
	if cmd == nil {
		failed.Root = state.Read()
		return failed, nil
	}
	return d.DispatchCommand(ctx, state, cmd)
}

// DispatchCommand runs an already parsed command against state.
func (d *Dispatcher) DispatchCommand(ctx context.Context, state *project.State, cmd *cli.Command) (Result, error) {
	if cmd.Kind != cli.KindInit {
		return d.run(ctx, state.Read(), cmd)
	}

	var (
		res   Result
		fatal error
	)
	_ = state.Update(func(current *project.Root) (*project.Root, error) {
		res, fatal = d.run(ctx, current, cmd)
		return res.Root, nil
	})
	return res, fatal
}

// Run parses tokens and runs them against root without a session state.
func (d *Dispatcher) Run(ctx context.Context, root *project.Root, tokens []string) (Result, error) {
	cmd, failed := d.parse(tokens)
	if cmd == nil {
		failed.Root = root
		return failed, nil
	}
	return d.run(ctx, root, cmd)
}

// parse returns the command, or a ParseFailed result carrying the text to
// show instead.
func (d *Dispatcher) parse(tokens []string) (*cli.Command, Result) {
	cmd, err := d.parser.Parse(tokens)
	if err == nil {
		return cmd, Result{}
	}

	var perr *cli.ParseError
	if errors.As(err, &perr) {
		if perr.Help {
			return nil, Result{Output: perr.Output()}
		}
		d.logger.Debug("parse failed", "error", err)
		return nil, Result{Output: perr.Output(), Outcome: OutcomeParseFailed, Err: err}
	}
	return nil, Result{Output: "error: " + err.Error() + "\n", Outcome: OutcomeParseFailed, Err: err}
}

// run executes cmd on one goroutine while another collects its output.
func (d *Dispatcher) run(ctx context.Context, root *project.Root, cmd *cli.Command) (Result, error) {
	level := output.LevelFromFlags(cmd.Global.Quiet, cmd.Global.Verbosity)
	d.logger.Debug("dispatching", "command", cmd.Name(), "level", level.String(), "in_project", root != nil)

	ch := output.NewChannel(d.bound)
	var (
		text  string
		res   = Result{Root: root}
		fatal error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		text = output.Collect(ch.Lines(), level)
	})
	wg.Go(func() {
		defer ch.Close()

		var catcher panics.Catcher
		catcher.Try(func() {
			fatal = d.execute(ctx, root, cmd, ch, &res)
		})
		if r := catcher.Recovered(); r != nil {
			d.logger.Error("command panicked", "command", cmd.Name(), "panic", r.Value)
			output.Panicf(ch, "%v\n", r.Value)
			res.Outcome = OutcomeEngineFailed
			res.Err = r.AsError()
		}
	})
	wg.Wait()

	res.Output = text
	return res, fatal
}

// execute is the body of the executing goroutine. It records the outcome
// in res and returns an error only for fatal automation failures.
func (d *Dispatcher) execute(ctx context.Context, root *project.Root, cmd *cli.Command, sink output.Sink, res *Result) error {
	if cmd.Global.FromRef != "" && root != nil && d.automation != nil {
		if err := d.automation.CheckoutRef(ctx, root, cmd.Global.FromRef, sink); err != nil {
			output.Errorf(sink, "%v\n", err)
		}
	}

	if cmd.Kind.RequiresProject() && root == nil {
		output.Errorf(sink, "%v\n", project.ErrRequiresProject)
		res.Outcome = OutcomeRequiresProject
		res.Err = project.ErrRequiresProject
	} else {
		next, err := d.executor.Execute(ctx, cmd, root, sink)
		if err != nil {
			d.logger.Debug("engine failed", "command", cmd.Name(), "error", err)
			output.Errorf(sink, "%v\n", err)
			res.Outcome = OutcomeEngineFailed
			res.Err = err
		}
		res.Root = next
	}

	// A failed command leaves nothing worth committing.
	if cmd.Global.SkipGit || res.Root == nil || d.automation == nil || res.Outcome != OutcomeOK {
		return nil
	}

	err := d.automate(ctx, res.Root, cmd, sink)
	if err == nil {
		return nil
	}
	err = fmt.Errorf("%w: %v", ErrAutomation, err)
	if res.Outcome == OutcomeOK {
		res.Outcome = OutcomeAutomationFailed
		res.Err = err
	}
	if d.policy == ReportAutomationError {
		output.Errorf(sink, "%v\n", err)
		return nil
	}
	return err
}

// automate reloads the project state the command may have changed and
// runs the git sync on it.
func (d *Dispatcher) automate(ctx context.Context, root *project.Root, cmd *cli.Command, sink output.Sink) error {
	fresh, err := root.Refresh()
	if err != nil {
		return err
	}
	return d.automation.Sync(ctx, fresh, cmd, sink)
}
