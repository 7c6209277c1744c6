package xvc

import (
	"sort"
	"strings"

	"github.com/xvc-go/xvcgo/internal/args"
)

// Values maps option names to values for Exec. Names are matched against
// each command's aliases ignoring case and -/_ differences. Booleans render
// as bare flags, strings and integers as flag-value pairs, [2]string as a
// joined pair and []string as a repeated flag.
type Values = args.Values

// Shared rules. Each table lists rules in the order the engine documents
// its options.
var (
	helpRule          = args.Flag("--help", "help")
	forceRule         = args.Flag("--force", "force")
	recheckMethodRule = args.Option("--recheck-method", "recheck-method")
	textOrBinaryRule  = args.Option("--text-or-binary", "text-or-binary")
	noParallelRule    = args.Flag("--no-parallel", "no-parallel")
	noRecheckRule     = args.Flag("--no-recheck", "no-recheck")

	pipelineNameRule = args.Option("--pipeline-name", "name", "pipeline-name")
	workdirRule      = args.Option("--workdir", "workdir")
	pipelineFileRule = args.Option("--file", "file")
	formatRule       = args.Option("--format", "format")
	stepNameRule     = args.Option("--step-name", "name", "step-name")
	commandRule      = args.Option("--command", "command")
	whenRule         = args.Option("--when", "when")

	storageNameRule   = args.Option("--name", "name")
	storagePrefixRule = args.Option("--storage-prefix", "storage-prefix")
	bucketNameRule    = args.Option("--bucket-name", "bucket-name")
	regionRule        = args.Option("--region", "region")
	endpointRule      = args.Option("--endpoint", "endpoint")
	storageDirRule    = args.Option("--storage-dir", "storage-dir")
)

// tables holds the option table of every sub-command, keyed by its path.
var tables = map[string]args.Table{
	"init":         {helpRule, args.Option("--path", "path"), args.Flag("--no-git", "no-git"), forceRule},
	"root":         {args.Flag("--absolute", "absolute")},
	"aliases":      {},
	"check-ignore": {helpRule, args.Flag("--details", "details"), args.Option("--ignore-filename", "ignore-filename"), args.Flag("--non-matching", "non-matching")},

	"file track":    {helpRule, recheckMethodRule, args.Flag("--no-commit", "no-commit"), textOrBinaryRule, forceRule, noParallelRule},
	"file hash":     {helpRule, args.Option("--algorithm", "algorithm"), textOrBinaryRule},
	"file carry-in": {helpRule, textOrBinaryRule, forceRule, noParallelRule},
	"file recheck":  {helpRule, recheckMethodRule, forceRule, noParallelRule},
	"file list":     {helpRule, args.Option("--format", "format"), args.Option("--sort", "sort"), args.Flag("--no-summary", "no-summary")},
	"file send":     {helpRule, args.Option("--remote", "remote", "to"), forceRule},
	"file bring":    {helpRule, args.Option("--remote", "remote", "from"), forceRule, noRecheckRule, args.Option("--recheck-as", "recheck-as")},
	"file copy":     {helpRule, recheckMethodRule, forceRule, noRecheckRule},
	"file move":     {helpRule, recheckMethodRule, forceRule, noRecheckRule},
	"file untrack":  {helpRule, args.Option("--restore-versions", "restore-versions")},
	"file remove": {helpRule, forceRule, args.Flag("--from-cache", "from-cache"), args.Option("--from-storage", "from-storage"),
		args.Flag("--all-versions", "all-versions"), args.Option("--only-version", "only-version")},
	"file share": {helpRule, args.Option("--remote", "remote"), args.Option("--duration", "duration")},

	"storage list":      {},
	"storage remove":    {storageNameRule},
	"storage new local": {storageNameRule, args.Option("--path", "path")},
	"storage new generic": {storageNameRule,
		args.Option("--init", "init", "init-command"),
		args.Option("--list", "list", "list-command"),
		args.Option("--download", "download", "download-command"),
		args.Option("--upload", "upload", "upload-command"),
		args.Option("--delete", "delete", "delete-command"),
		args.Option("--processes", "processes", "max-processes"),
		args.Option("--url", "url"),
		storageDirRule},
	"storage new rsync":         {storageNameRule, args.Option("--host", "host"), args.Option("--port", "port"), args.Option("--user", "user"), storageDirRule},
	"storage new s3":            {storageNameRule, storagePrefixRule, bucketNameRule, regionRule},
	"storage new minio":         {storageNameRule, storagePrefixRule, bucketNameRule, endpointRule, regionRule},
	"storage new digital-ocean": {storageNameRule, storagePrefixRule, bucketNameRule, regionRule},
	"storage new r2":            {storageNameRule, storagePrefixRule, args.Option("--account-id", "account-id"), bucketNameRule},
	"storage new gcs":           {storageNameRule, storagePrefixRule, bucketNameRule, regionRule},
	"storage new wasabi":        {storageNameRule, storagePrefixRule, bucketNameRule, endpointRule},

	"pipeline new":    {pipelineNameRule, workdirRule},
	"pipeline update": {pipelineNameRule, args.Option("--rename", "rename"), workdirRule, args.Flag("--set-default", "set-default")},
	"pipeline delete": {pipelineNameRule},
	"pipeline run":    {pipelineNameRule},
	"pipeline list":   {},
	"pipeline dag":    {pipelineNameRule, pipelineFileRule, formatRule},
	"pipeline export": {pipelineNameRule, pipelineFileRule, formatRule},
	"pipeline import": {pipelineNameRule, pipelineFileRule, formatRule, args.Flag("--overwrite", "overwrite")},

	"pipeline step new":    {stepNameRule, commandRule, whenRule},
	"pipeline step update": {stepNameRule, commandRule, whenRule},
	"pipeline step dependency": {stepNameRule,
		args.Multi("--file", "file"),
		args.Multi("--url", "url"),
		args.Multi("--glob", "glob"),
		args.Multi("--glob-items", "glob-items"),
		args.Multi("--step", "step"),
		args.Pair("--param", "::", "param"),
		args.Multi("--regex", "regex"),
		args.Multi("--regex-items", "regex-items"),
		args.Multi("--line", "line", "lines"),
		args.Multi("--line-items", "line-items"),
		args.Multi("--generic", "generic")},
	"pipeline step output": {stepNameRule,
		args.Multi("--output-file", "file", "output-file"),
		args.Multi("--output-metric", "metric", "output-metric"),
		args.Multi("--output-images", "image", "output-images")},
	"pipeline step list": {args.Flag("--names-only", "names-only")},
	"pipeline step show": {stepNameRule},
}

// Commands returns the sub-command paths Exec accepts, sorted.
func Commands() []string {
	out := make([]string, 0, len(tables))
	for name := range tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func joinPath(path []string) string {
	return strings.Join(path, " ")
}
