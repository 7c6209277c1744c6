package cli

import "github.com/spf13/cobra"

type valueKind int

const (
	boolValue valueKind = iota
	stringValue
	listValue
)

type flagSpec struct {
	name  string
	short string
	kind  valueKind
	usage string
}

type argsKind int

const (
	noArgs argsKind = iota
	anyArgs
	twoArgs
)

// commandSpec declares one node of the sub-command tree. Nodes with
// children are groups and are not runnable on their own.
type commandSpec struct {
	name       string
	short      string
	args       argsKind
	flags      []flagSpec
	persistent []flagSpec
	children   []commandSpec
}

func (a argsKind) validator() cobra.PositionalArgs {
	switch a {
	case anyArgs:
		return cobra.ArbitraryArgs
	case twoArgs:
		return cobra.ExactArgs(2)
	default:
		return cobra.NoArgs
	}
}

func b(name, usage string) flagSpec  { return flagSpec{name: name, kind: boolValue, usage: usage} }
func s(name, usage string) flagSpec  { return flagSpec{name: name, kind: stringValue, usage: usage} }
func ls(name, usage string) flagSpec { return flagSpec{name: name, kind: listValue, usage: usage} }

var (
	recheckMethod = s("recheck-method", "How to restore files from the cache: copy, hardlink, symlink or reflink")
	textOrBinary  = s("text-or-binary", "Calculate digests as text, binary or auto")
	force         = b("force", "Overwrite existing files and metadata")
	noParallel    = b("no-parallel", "Don't use parallelism")
	noRecheck     = b("no-recheck", "Don't recheck the destination after the operation")
	storageName   = s("name", "Name of the storage")
	storagePrefix = s("storage-prefix", "Prefix prepended to paths inside the bucket")
	bucketName    = s("bucket-name", "Bucket name")
	region        = s("region", "Region of the bucket")
	endpoint      = s("endpoint", "Endpoint URL of the service")
	stepName      = s("step-name", "Name of the step")
	pipelineFile  = s("file", "File to read or write")
	pipelineFmt   = s("format", "Format of the file: json, yaml, dot or mermaid")
)

// grammar is the engine's sub-command tree.
var grammar = []commandSpec{
	{
		name:  "init",
		short: "Initialize an xvc project",
		flags: []flagSpec{
			s("path", "Path to the project root"),
			b("no-git", "Don't require git"),
			force,
		},
	},
	{
		name:  "aliases",
		short: "Print shell aliases for xvc commands",
	},
	{
		name:  "root",
		short: "Find the root directory of the project",
		flags: []flagSpec{b("absolute", "Show the absolute path")},
	},
	{
		name:  "check-ignore",
		short: "Check whether files are ignored with .xvcignore",
		args:  anyArgs,
		flags: []flagSpec{
			b("details", "Show the exclude patterns along with each target path"),
			s("ignore-filename", "Filename that contains ignore rules"),
			b("non-matching", "Show targets not matching any pattern"),
		},
	},
	{
		name:  "file",
		short: "File and directory management",
		children: []commandSpec{
			{name: "track", short: "Add files and directories", args: anyArgs,
				flags: []flagSpec{recheckMethod, b("no-commit", "Don't copy files to the cache"), textOrBinary, force, noParallel}},
			{name: "hash", short: "Get digests of files", args: anyArgs,
				flags: []flagSpec{s("algorithm", "Digest algorithm"), textOrBinary}},
			{name: "carry-in", short: "Carry changed files to the cache", args: anyArgs,
				flags: []flagSpec{textOrBinary, force, noParallel}},
			{name: "recheck", short: "Get files from the cache", args: anyArgs,
				flags: []flagSpec{recheckMethod, force, noParallel}},
			{name: "list", short: "List tracked and untracked elements", args: anyArgs,
				flags: []flagSpec{s("format", "Format string for each row"), s("sort", "Sort criteria"), b("no-summary", "Don't show the totals line")}},
			{name: "send", short: "Send files to a storage", args: anyArgs,
				flags: []flagSpec{s("remote", "Storage name or guid"), force}},
			{name: "bring", short: "Bring files from a storage", args: anyArgs,
				flags: []flagSpec{s("remote", "Storage name or guid"), force, noRecheck, s("recheck-as", "Recheck method for brought files")}},
			{name: "copy", short: "Copy a tracked file", args: twoArgs,
				flags: []flagSpec{recheckMethod, force, noRecheck}},
			{name: "move", short: "Move a tracked file", args: twoArgs,
				flags: []flagSpec{recheckMethod, force, noRecheck}},
			{name: "untrack", short: "Untrack files", args: anyArgs,
				flags: []flagSpec{s("restore-versions", "Restore all versions to a directory")}},
			{name: "remove", short: "Remove files from the cache or storages", args: anyArgs,
				flags: []flagSpec{force, b("from-cache", "Remove from the cache"), s("from-storage", "Remove from the named storage"),
					b("all-versions", "Remove all versions"), s("only-version", "Remove only this version")}},
			{name: "share", short: "Share a file from a storage for a limited time", args: anyArgs,
				flags: []flagSpec{s("remote", "Storage name or guid"), s("duration", "Validity period, e.g. 24h")}},
		},
	},
	{
		name:  "pipeline",
		short: "Pipeline management",
		persistent: []flagSpec{
			{name: "pipeline-name", short: "p", kind: stringValue, usage: "Name of the pipeline this command applies to"},
		},
		children: []commandSpec{
			{name: "new", short: "Create a new pipeline",
				flags: []flagSpec{s("workdir", "Working directory of the pipeline")}},
			{name: "update", short: "Update the name and other attributes of a pipeline",
				flags: []flagSpec{s("rename", "New name"), s("workdir", "Working directory of the pipeline"), b("set-default", "Make this the default pipeline")}},
			{name: "delete", short: "Delete a pipeline"},
			{name: "run", short: "Run a pipeline"},
			{name: "list", short: "List all pipelines"},
			{name: "dag", short: "Generate a graph of the pipeline",
				flags: []flagSpec{pipelineFile, pipelineFmt}},
			{name: "export", short: "Export the pipeline to a file",
				flags: []flagSpec{pipelineFile, pipelineFmt}},
			{name: "import", short: "Import a pipeline from a file",
				flags: []flagSpec{pipelineFile, pipelineFmt, b("overwrite", "Overwrite an existing pipeline")}},
			{
				name:  "step",
				short: "Step management",
				children: []commandSpec{
					{name: "new", short: "Add a new step",
						flags: []flagSpec{stepName, s("command", "Command to run"), s("when", "When to run: by_dependencies, always or never")}},
					{name: "update", short: "Update a step",
						flags: []flagSpec{stepName, s("command", "Command to run"), s("when", "When to run: by_dependencies, always or never")}},
					{name: "dependency", short: "Add a dependency to a step",
						flags: []flagSpec{stepName,
							ls("file", "File dependency"), ls("url", "URL dependency"),
							ls("glob", "Glob dependency, invalidated by any change"), ls("glob-items", "Glob dependency tracking individual items"),
							ls("step", "Step dependency"), ls("param", "Parameter dependency as file::key"),
							ls("regex", "Regex dependency as file:/regex"), ls("regex-items", "Regex dependency tracking individual lines"),
							ls("line", "Line range dependency as file::a-b"), ls("line-items", "Line range dependency tracking individual lines"),
							ls("generic", "Generic command dependency")}},
					{name: "output", short: "Add an output to a step",
						flags: []flagSpec{stepName, ls("output-file", "Output file"), ls("output-metric", "Output metrics file"), ls("output-images", "Output image")}},
					{name: "list", short: "List steps in a pipeline",
						flags: []flagSpec{b("names-only", "Print only step names")}},
					{name: "show", short: "Print step configuration",
						flags: []flagSpec{stepName}},
				},
			},
		},
	},
	{
		name:  "storage",
		short: "Storage (remote) management",
		children: []commandSpec{
			{name: "list", short: "List all configured storages"},
			{name: "remove", short: "Remove a storage configuration",
				flags: []flagSpec{storageName}},
			{
				name:  "new",
				short: "Add a new storage",
				children: []commandSpec{
					{name: "local", short: "Add a local directory as storage",
						flags: []flagSpec{storageName, s("path", "Directory to use as storage")}},
					{name: "generic", short: "Add a storage driven by shell commands",
						flags: []flagSpec{storageName,
							s("init", "Command to initialize the storage"), s("list", "Command to list files"),
							s("download", "Command to download a file"), s("upload", "Command to upload a file"),
							s("delete", "Command to delete a file"), s("processes", "Number of concurrent processes"),
							s("url", "URL of the storage, available as {URL}"), s("storage-dir", "Directory in the storage, available as {STORAGE_DIR}")}},
					{name: "rsync", short: "Add an rsync server as storage",
						flags: []flagSpec{storageName, s("host", "Hostname"), s("port", "Port"), s("user", "User name"), s("storage-dir", "Directory on the host")}},
					{name: "s3", short: "Add an AWS S3 bucket as storage",
						flags: []flagSpec{storageName, storagePrefix, bucketName, region}},
					{name: "minio", short: "Add a MinIO bucket as storage",
						flags: []flagSpec{storageName, storagePrefix, bucketName, endpoint, region}},
					{name: "digital-ocean", short: "Add a Digital Ocean Space as storage",
						flags: []flagSpec{storageName, storagePrefix, bucketName, region}},
					{name: "r2", short: "Add a Cloudflare R2 bucket as storage",
						flags: []flagSpec{storageName, storagePrefix, s("account-id", "Cloudflare account id"), bucketName}},
					{name: "gcs", short: "Add a Google Cloud Storage bucket as storage",
						flags: []flagSpec{storageName, storagePrefix, bucketName, region}},
					{name: "wasabi", short: "Add a Wasabi bucket as storage",
						flags: []flagSpec{storageName, storagePrefix, bucketName, endpoint}},
				},
			},
		},
	},
}
