package editor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/surivin/Global-List-Editor/pkg/globallist"
	"github.com/surivin/Global-List-Editor/pkg/witadmin"
)

// target is the environment a witadmin call runs against
type target struct {
	env         string
	url         string
	downloadDir string
	location    string
	generation  int
}

func (e *Editor) targetLocked() target {
	return target{
		env:         e.environment,
		url:         e.url,
		downloadDir: e.downloadDir,
		location:    e.location,
		generation:  e.generation,
	}
}

// Refresh exports the environment's global lists into the working file and
// reads the list names back. When the export fails the working file is still
// read, so lists from an earlier export stay usable, and the export error is
// returned alongside them. The list and item selection is cleared.
func (e *Editor) Refresh(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	t := e.targetLocked()
	e.mu.Unlock()

	if t.env == "" {
		return nil, ErrNoEnvironment
	}
	if t.location == "" {
		return nil, fmt.Errorf("%w: %s has no download location", ErrNotConfigured, t.env)
	}

	e.beginLoading()
	defer e.endLoading()

	if e.refreshDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.refreshDelay):
		}
	}

	if err := os.MkdirAll(filepath.Dir(t.location), 0750); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	_, exportErr := e.client.ExportGlobalLists(ctx, t.url, t.location)
	if exportErr != nil {
		e.logger.Warnf("export for %s failed, reading existing file: %v", t.env, exportErr)
	}

	doc, loadErr := globallist.Load(t.location)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.generation != t.generation {
		return nil, ErrSuperseded
	}

	e.items = nil
	e.itemsOf = ""
	if loadErr != nil {
		e.lists = nil
		return nil, errors.Join(exportErr, loadErr)
	}

	names := doc.ListNames()
	e.lists = listsFromNames(names)
	e.logger.Infof("loaded %d global list(s) for %s", len(names), t.env)
	return names, exportErr
}

// CanDownload reports whether DownloadAll can run.
func (e *Editor) CanDownload() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canDownloadLocked()
}

// CanApply reports whether ApplyChanges can run.
func (e *Editor) CanApply() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canApplyLocked()
}

func (e *Editor) canDownloadLocked() bool {
	return strings.TrimSpace(e.environment) != "" && e.url != "" && strings.TrimSpace(e.downloadDir) != ""
}

func (e *Editor) canApplyLocked() bool {
	return strings.TrimSpace(e.environment) != "" && e.url != "" && e.location != ""
}

// DownloadPath returns where DownloadAll writes for env.
func DownloadPath(downloadDir, env string) string {
	return filepath.Join(downloadDir, env+"_GlobalLists.xml")
}

// DownloadAll exports the entire set of global lists to
// <download dir>/<environment>_GlobalLists.xml, creating the directory.
// The working file is not touched.
func (e *Editor) DownloadAll(ctx context.Context) (string, witadmin.Result, error) {
	e.mu.Lock()
	ok := e.canDownloadLocked()
	t := e.targetLocked()
	e.mu.Unlock()

	if t.env == "" {
		return "", witadmin.Result{}, ErrNoEnvironment
	}
	if !ok {
		return "", witadmin.Result{}, fmt.Errorf("%w: %s", ErrNotConfigured, t.env)
	}

	if err := os.MkdirAll(t.downloadDir, 0750); err != nil {
		return "", witadmin.Result{}, fmt.Errorf("failed to create download directory: %w", err)
	}

	e.beginLoading()
	defer e.endLoading()

	path := DownloadPath(t.downloadDir, t.env)
	res, err := e.client.ExportGlobalLists(ctx, t.url, path)
	if err != nil {
		return path, res, err
	}
	e.logger.Infof("exported global lists of %s to %s", t.env, path)
	return path, res, nil
}

// ApplyChanges imports the working file into the environment.
func (e *Editor) ApplyChanges(ctx context.Context) (witadmin.Result, error) {
	e.mu.Lock()
	ok := e.canApplyLocked()
	t := e.targetLocked()
	e.mu.Unlock()

	if t.env == "" {
		return witadmin.Result{}, ErrNoEnvironment
	}
	if !ok {
		return witadmin.Result{}, fmt.Errorf("%w: %s", ErrNotConfigured, t.env)
	}

	e.beginLoading()
	defer e.endLoading()

	res, err := e.client.ImportGlobalLists(ctx, t.url, t.location)
	if err != nil {
		return res, err
	}
	e.logger.Infof("imported %s into %s", t.location, t.env)
	return res, nil
}
