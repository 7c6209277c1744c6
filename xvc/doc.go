// Package xvc exposes the xvc command line as Go methods.
//
// A Session holds the global options of every command it runs and the
// project root those commands operate on. Sub-command families are reached
// through façades:
//
//	s, err := xvc.New(xvc.Config{Verbosity: 1})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//
//	out, err := s.File().Track(ctx, []string{"data/"}, xvc.TrackOptions{
//	    RecheckMethod: "symlink",
//	})
//
// Every method builds an argv-like token vector, parses it with the same
// grammar the engine uses, runs it, and returns the engine's output as a
// single string. Malformed input and engine failures are reported inside
// that string, tagged "[ERROR] " or starting with "error: ", rather than
// as a Go error. The error return is reserved for options that cannot be
// rendered and for git automation failures under FailOnAutomationError.
//
// # Façades
//
//   - File: track, hash, carry-in, recheck, list, send, bring, copy, move,
//     untrack, remove, share
//   - Storage: list, remove and new {local, generic, rsync, s3, minio,
//     digital-ocean, r2, gcs, wasabi}
//   - Pipeline: new, update, delete, run, list, dag, export, import, and
//     Step: new, update, dependency, output, list, show
//
// The typed option structs cover the documented options. Exec accepts a
// loosely typed Values map with the alias spellings ("recheck_method",
// "recheck-method") the engine's other bindings accept.
package xvc
