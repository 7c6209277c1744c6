package xvc

import (
	"github.com/xvc-go/xvcgo/internal/dispatch"
	"github.com/xvc-go/xvcgo/internal/engine"
)

// Result is one dispatched command with its classified outcome. Most
// callers only need the Output string the façade methods return.
type Result = dispatch.Result

// Outcome classifies how a command ended.
type Outcome = dispatch.Outcome

const (
	OutcomeOK               = dispatch.OutcomeOK
	OutcomeParseFailed      = dispatch.OutcomeParseFailed
	OutcomeRequiresProject  = dispatch.OutcomeRequiresProject
	OutcomeEngineFailed     = dispatch.OutcomeEngineFailed
	OutcomeAutomationFailed = dispatch.OutcomeAutomationFailed
)

// AutomationPolicy decides whether a failed git commit after a command is
// returned as an error or reported in the output.
type AutomationPolicy = dispatch.AutomationPolicy

const (
	FailOnAutomationError = dispatch.FailOnAutomationError
	ReportAutomationError = dispatch.ReportAutomationError
)

// Executor runs parsed commands. The default runs the xvc binary.
type Executor = engine.Executor

// Automation performs git side effects around commands.
type Automation = dispatch.Automation

var (
	// ErrAutomation wraps git automation failures.
	ErrAutomation = dispatch.ErrAutomation

	// ErrEngineNotAvailable is returned when the xvc binary is not found.
	ErrEngineNotAvailable = engine.ErrEngineNotAvailable
)
