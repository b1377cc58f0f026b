// Package tree reconciles two directory roots file by file: the left root
// holds the prior revision, the right root the working copy being split.
// After reconciling, each file under the right root contains only its
// substantive code changes.
package tree

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"codecarve/internal/merge"
)

// InstructionsFile is the sentinel the split driver drops into the working
// copy. It is never merged nor rewritten.
const InstructionsFile = "JJ-INSTRUCTIONS"

const defaultWorkers = 8

// A Reconciler rewrites the files under Right so that, relative to Left,
// only code changes remain. Files are independent, so they are processed
// concurrently by up to Workers goroutines (a default applies when zero).
type Reconciler struct {
	Left    string
	Right   string
	Merger  merge.Merger
	Workers int
}

// Reconcile walks the union of relative paths under the two roots and
// dispatches each one: present on both sides means merge, present only on
// the left means restore the left file, present only on the right means
// filter the new file down to its code. Both roots must exist. The first
// error stops the remaining work.
func (r *Reconciler) Reconcile() error {
	paths, err := r.unionPaths()
	if err != nil {
		return err
	}
	workers := r.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for _, relPath := range paths {
		relPath := relPath
		g.Go(func() error {
			return r.reconcilePath(relPath)
		})
	}
	return g.Wait()
}

func (r *Reconciler) reconcilePath(relPath string) error {
	leftText, leftOK, err := readIfExists(filepath.Join(r.Left, relPath))
	if err != nil {
		return err
	}
	rightText, rightOK, err := readIfExists(filepath.Join(r.Right, relPath))
	if err != nil {
		return err
	}
	rightPath := filepath.Join(r.Right, relPath)
	switch {
	case leftOK && rightOK:
		merged := r.Merger.KeepCode(leftText, rightText)
		if merged == rightText {
			log.WithField("path", relPath).Debug("unchanged")
			return nil
		}
		log.WithField("path", relPath).Debug("merge")
		return writeFile(rightPath, []byte(merged))
	case rightOK:
		log.WithField("path", relPath).Debug("filter-right-only")
		return writeFile(rightPath, []byte(r.Merger.FilterNew(rightText)))
	case leftOK:
		log.WithField("path", relPath).Debug("restore-file")
		return writeFile(rightPath, []byte(leftText))
	default:
		// The path came from the union walk, so one side must have had it;
		// losing it in between is fine, there is nothing to do.
		return nil
	}
}

// unionPaths lists every relative path holding a regular file under either
// root, sorted, minus the instructions sentinel.
func (r *Reconciler) unionPaths() ([]string, error) {
	set := make(map[string]struct{})
	for _, root := range []string{r.Left, r.Right} {
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			relPath, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			if relPath == InstructionsFile {
				return nil
			}
			set[relPath] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not walk %q", root)
		}
	}
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// readIfExists distinguishes a missing file, which is not an error for the
// caller, from a file that could not be read.
func readIfExists(path string) (string, bool, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "could not read %q", path)
	}
	return string(b), true, nil
}

// writeFile replaces path atomically, writing a sibling and renaming it
// over the target. Parent directories are created on demand.
func writeFile(path string, data []byte) error {
	pnew := path + ".new"
	err := os.WriteFile(pnew, data, 0666)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "could not write %q", pnew)
		}
		if err = os.MkdirAll(filepath.Dir(pnew), 0777); err != nil {
			return errors.Wrapf(err, "could not mkdir for %q", pnew)
		}
		if err = os.WriteFile(pnew, data, 0666); err != nil {
			return errors.Wrapf(err, "could not write %q", pnew)
		}
	}
	if err := os.Rename(pnew, path); err != nil {
		return errors.Wrapf(err, "could not rename %q", pnew)
	}
	return nil
}
