package xvc

import (
	"context"
	"runtime/debug"
	"strings"
)

// Build information, set with -ldflags "-X" at release time.
var (
	BuildVersion = ""
	BuildCommit  = ""
)

// Version returns the binding version: BuildVersion when set, otherwise
// the module version recorded in the build info.
func Version() string {
	if BuildVersion != "" {
		return BuildVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				return dep.Version
			}
		}
		if info.Main.Path == modulePath && info.Main.Version != "" {
			return info.Main.Version
		}
	}
	return "(devel)"
}

const modulePath = "github.com/xvc-go/xvcgo"

// Run runs a full command line such as "xvc file list data/" in a session
// with default options. The line is split on single spaces, so arguments
// cannot contain spaces; use a Session method or Session.Dispatch for
// those.
func Run(ctx context.Context, line string, opts ...Option) (string, error) {
	s, err := New(Config{}, opts...)
	if err != nil {
		return "", err
	}
	defer s.Close()
	return s.Run(ctx, line)
}

// Run runs a full command line in this session, split on single spaces.
// A leading "xvc" is optional. The session's global options are not
// prepended; the line carries its own.
func (s *Session) Run(ctx context.Context, line string) (string, error) {
	return s.text(s.Dispatch(ctx, strings.Split(line, " ")))
}
