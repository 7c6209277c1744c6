package xvc

import (
	"context"

	"github.com/xvc-go/xvcgo/internal/args"
)

// Pipeline runs "xvc pipeline" sub-commands for one pipeline.
type Pipeline struct {
	s    *Session
	name string
}

// Name returns the pipeline name, or "" for the project default.
func (p *Pipeline) Name() string {
	return p.name
}

// prefix is "pipeline", plus --pipeline-name when the façade was created
// for a named pipeline.
func (p *Pipeline) prefix() []string {
	if p.name == "" {
		return []string{"pipeline"}
	}
	return []string{"pipeline", "--pipeline-name", p.name}
}

func (p *Pipeline) run(ctx context.Context, action []string, values args.Values) (string, error) {
	path := append(p.prefix(), action...)
	name := joinPath(append([]string{"pipeline"}, action...))
	return p.s.invoke(ctx, path, name, values, nil)
}

// PipelineOptions are the options of "xvc pipeline new".
type PipelineOptions struct {
	// Name overrides the façade's pipeline name.
	Name string

	// Workdir is the directory steps run in, relative to the project
	// root.
	Workdir string
}

// New creates the pipeline.
func (p *Pipeline) New(ctx context.Context, opts PipelineOptions) (string, error) {
	return p.run(ctx, []string{"new"}, args.Values{
		"name":    opts.Name,
		"workdir": opts.Workdir,
	})
}

// UpdateOptions are the options of "xvc pipeline update".
type UpdateOptions struct {
	Name       string
	Rename     string
	Workdir    string
	SetDefault bool
}

// Update renames the pipeline or changes its working directory or default
// status.
func (p *Pipeline) Update(ctx context.Context, opts UpdateOptions) (string, error) {
	return p.run(ctx, []string{"update"}, args.Values{
		"name":        opts.Name,
		"rename":      opts.Rename,
		"workdir":     opts.Workdir,
		"set-default": opts.SetDefault,
	})
}

// Delete removes the pipeline.
func (p *Pipeline) Delete(ctx context.Context) (string, error) {
	return p.run(ctx, []string{"delete"}, nil)
}

// Run runs the pipeline's steps whose dependencies changed.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	return p.run(ctx, []string{"run"}, nil)
}

// List prints every pipeline in the project.
func (p *Pipeline) List(ctx context.Context) (string, error) {
	return p.run(ctx, []string{"list"}, nil)
}

// FileOptions are the options of "xvc pipeline dag", "export" and
// "import".
type FileOptions struct {
	// File is written by dag and export and read by import. Empty means
	// stdout or stdin.
	File string

	// Format is json or yaml for export and import, dot or mermaid for
	// dag.
	Format string

	// Overwrite replaces an existing pipeline on import.
	Overwrite bool
}

// Dag prints the pipeline's dependency graph.
func (p *Pipeline) Dag(ctx context.Context, opts FileOptions) (string, error) {
	return p.run(ctx, []string{"dag"}, args.Values{"file": opts.File, "format": opts.Format})
}

// Export writes the pipeline definition.
func (p *Pipeline) Export(ctx context.Context, opts FileOptions) (string, error) {
	return p.run(ctx, []string{"export"}, args.Values{"file": opts.File, "format": opts.Format})
}

// Import reads a pipeline definition.
func (p *Pipeline) Import(ctx context.Context, opts FileOptions) (string, error) {
	return p.run(ctx, []string{"import"}, args.Values{
		"file":      opts.File,
		"format":    opts.Format,
		"overwrite": opts.Overwrite,
	})
}

// Step returns the step façade of this pipeline.
func (p *Pipeline) Step() *Step {
	return &Step{p: p}
}

// Step runs "xvc pipeline step" sub-commands.
type Step struct {
	p *Pipeline
}

func (st *Step) run(ctx context.Context, action string, values args.Values) (string, error) {
	return st.p.run(ctx, []string{"step", action}, values)
}

// StepOptions are the options of "xvc pipeline step new" and "update".
type StepOptions struct {
	Name    string
	Command string

	// When is by_dependencies, always or never.
	When string
}

func (o StepOptions) values() args.Values {
	return args.Values{
		"step-name": o.Name,
		"command":   o.Command,
		"when":      o.When,
	}
}

// New adds a step to the pipeline.
func (st *Step) New(ctx context.Context, opts StepOptions) (string, error) {
	return st.run(ctx, "new", opts.values())
}

// Update changes a step's command or run condition.
func (st *Step) Update(ctx context.Context, opts StepOptions) (string, error) {
	return st.run(ctx, "update", opts.values())
}

// DependencyOptions are the options of "xvc pipeline step dependency".
// Every list adds one dependency per element.
type DependencyOptions struct {
	Name string

	Files      []string
	URLs       []string
	Globs      []string
	GlobItems  []string
	Steps      []string
	Regexes    []string
	RegexItems []string
	Lines      []string
	LineItems  []string
	Generics   []string

	// Param is a parameter file and key, rendered as file::key.
	Param [2]string
}

// Dependency adds dependencies to a step.
func (st *Step) Dependency(ctx context.Context, opts DependencyOptions) (string, error) {
	return st.run(ctx, "dependency", args.Values{
		"step-name":   opts.Name,
		"file":        opts.Files,
		"url":         opts.URLs,
		"glob":        opts.Globs,
		"glob-items":  opts.GlobItems,
		"step":        opts.Steps,
		"param":       opts.Param,
		"regex":       opts.Regexes,
		"regex-items": opts.RegexItems,
		"line":        opts.Lines,
		"line-items":  opts.LineItems,
		"generic":     opts.Generics,
	})
}

// OutputOptions are the options of "xvc pipeline step output".
type OutputOptions struct {
	Name    string
	Files   []string
	Metrics []string
	Images  []string
}

// Output declares files a step produces.
func (st *Step) Output(ctx context.Context, opts OutputOptions) (string, error) {
	return st.run(ctx, "output", args.Values{
		"step-name":     opts.Name,
		"output-file":   opts.Files,
		"output-metric": opts.Metrics,
		"output-images": opts.Images,
	})
}

// List prints the pipeline's steps.
func (st *Step) List(ctx context.Context, namesOnly bool) (string, error) {
	return st.run(ctx, "list", args.Values{"names-only": namesOnly})
}

// Show prints one step's definition.
func (st *Step) Show(ctx context.Context, name string) (string, error) {
	return st.run(ctx, "show", args.Values{"step-name": name})
}
