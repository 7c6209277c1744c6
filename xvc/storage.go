package xvc

import (
	"context"

	"github.com/xvc-go/xvcgo/internal/args"
)

// Storage runs "xvc storage" sub-commands.
type Storage struct {
	s *Session
}

func (st *Storage) run(ctx context.Context, path []string, values args.Values) (string, error) {
	path = append([]string{"storage"}, path...)
	return st.s.invoke(ctx, path, joinPath(path), values, nil)
}

// List prints the configured storages.
func (st *Storage) List(ctx context.Context) (string, error) {
	return st.run(ctx, []string{"list"}, nil)
}

// Remove deletes the storage configuration called name. Stored files are
// left in place.
func (st *Storage) Remove(ctx context.Context, name string) (string, error) {
	return st.run(ctx, []string{"remove"}, args.Values{"name": name})
}

// LocalStorage configures a directory on this machine.
type LocalStorage struct {
	Name string
	Path string
}

// NewLocal adds a local directory storage.
func (st *Storage) NewLocal(ctx context.Context, opts LocalStorage) (string, error) {
	return st.run(ctx, []string{"new", "local"}, args.Values{
		"name": opts.Name,
		"path": opts.Path,
	})
}

// GenericStorage configures a storage driven by shell commands. The
// commands may use the {URL}, {STORAGE_DIR}, {LOCAL_PATH} and
// {RELATIVE_PATH} placeholders.
type GenericStorage struct {
	Name       string
	Init       string
	List       string
	Download   string
	Upload     string
	Delete     string
	Processes  int
	URL        string
	StorageDir string
}

// NewGeneric adds a generic command storage.
func (st *Storage) NewGeneric(ctx context.Context, opts GenericStorage) (string, error) {
	values := args.Values{
		"name":        opts.Name,
		"init":        opts.Init,
		"list":        opts.List,
		"download":    opts.Download,
		"upload":      opts.Upload,
		"delete":      opts.Delete,
		"url":         opts.URL,
		"storage-dir": opts.StorageDir,
	}
	if opts.Processes > 0 {
		values["processes"] = opts.Processes
	}
	return st.run(ctx, []string{"new", "generic"}, values)
}

// RsyncStorage configures a directory on an rsync/ssh host.
type RsyncStorage struct {
	Name       string
	Host       string
	Port       int
	User       string
	StorageDir string
}

// NewRsync adds an rsync storage.
func (st *Storage) NewRsync(ctx context.Context, opts RsyncStorage) (string, error) {
	values := args.Values{
		"name":        opts.Name,
		"host":        opts.Host,
		"user":        opts.User,
		"storage-dir": opts.StorageDir,
	}
	if opts.Port > 0 {
		values["port"] = opts.Port
	}
	return st.run(ctx, []string{"new", "rsync"}, values)
}

// BucketStorage configures an object storage bucket. Each provider uses
// the subset of fields its command accepts: Endpoint for MinIO and Wasabi,
// AccountID for R2, Region for the rest.
type BucketStorage struct {
	Name          string
	StoragePrefix string
	BucketName    string
	Region        string
	Endpoint      string
	AccountID     string
}

func (o BucketStorage) values() args.Values {
	return args.Values{
		"name":           o.Name,
		"storage-prefix": o.StoragePrefix,
		"bucket-name":    o.BucketName,
		"region":         o.Region,
		"endpoint":       o.Endpoint,
		"account-id":     o.AccountID,
	}
}

// NewS3 adds an AWS S3 bucket.
func (st *Storage) NewS3(ctx context.Context, opts BucketStorage) (string, error) {
	return st.run(ctx, []string{"new", "s3"}, opts.values())
}

// NewMinio adds a MinIO bucket.
func (st *Storage) NewMinio(ctx context.Context, opts BucketStorage) (string, error) {
	return st.run(ctx, []string{"new", "minio"}, opts.values())
}

// NewDigitalOcean adds a Digital Ocean Space.
func (st *Storage) NewDigitalOcean(ctx context.Context, opts BucketStorage) (string, error) {
	return st.run(ctx, []string{"new", "digital-ocean"}, opts.values())
}

// NewR2 adds a Cloudflare R2 bucket.
func (st *Storage) NewR2(ctx context.Context, opts BucketStorage) (string, error) {
	return st.run(ctx, []string{"new", "r2"}, opts.values())
}

// NewGCS adds a Google Cloud Storage bucket.
func (st *Storage) NewGCS(ctx context.Context, opts BucketStorage) (string, error) {
	return st.run(ctx, []string{"new", "gcs"}, opts.values())
}

// NewWasabi adds a Wasabi bucket.
func (st *Storage) NewWasabi(ctx context.Context, opts BucketStorage) (string, error) {
	return st.run(ctx, []string{"new", "wasabi"}, opts.values())
}
