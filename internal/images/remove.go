package images

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Outcome string

const (
	OutcomeDeleted          Outcome = "deleted"
	OutcomeNotFound         Outcome = "not_found"
	OutcomePermissionDenied Outcome = "permission_denied"
	OutcomeFailed           Outcome = "failed"
	OutcomeOutsideStore     Outcome = "outside_store"
)

type RemoveResult struct {
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	Err     error   `json:"-"`
}

// Remove deletes each path and reports what happened to it. It never fails
// as a whole; blank paths are skipped. Only files directly inside the store
// directory are deleted, anything else is reported as outside_store.
func (s *Store) Remove(paths ...string) []RemoveResult {
	results := make([]RemoveResult, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if !s.contains(p) {
			results = append(results, RemoveResult{Path: p, Outcome: OutcomeOutsideStore})
			continue
		}
		results = append(results, removeOne(p))
	}
	return results
}

func (s *Store) contains(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return filepath.Dir(abs) == s.dir
}

func removeOne(path string) RemoveResult {
	err := os.Remove(path)
	res := RemoveResult{Path: path, Outcome: OutcomeDeleted, Err: err}
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		res.Outcome = OutcomeNotFound
	case errors.Is(err, fs.ErrPermission):
		res.Outcome = OutcomePermissionDenied
	default:
		res.Outcome = OutcomeFailed
	}
	return res
}
