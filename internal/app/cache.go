package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.trai.ch/lumos/internal/core/domain"
	"go.trai.ch/lumos/internal/core/ports"
	"go.trai.ch/lumos/internal/ui/style"
	"go.trai.ch/zerr"
)

// CacheListOptions configuration for the CacheList method.
type CacheListOptions struct {
	ConfigPath string
}

// CacheList prints every cached artifact with its size, digest and fetch time.
// Entries without a recorded digest are hashed on the fly.
func (a *App) CacheList(ctx context.Context, opts CacheListOptions) error {
	cache, model, err := a.openCache(opts.ConfigPath)
	if err != nil {
		return err
	}

	entries, err := cache.List()
	if err != nil {
		return zerr.Wrap(err, "failed to list cache")
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintf(a.out, "cache %s is empty\n", cache.Root())
		return nil
	}

	var (
		missing []int
		paths   []string
	)
	for i, entry := range entries {
		if entry.Digest == "" {
			missing = append(missing, i)
			paths = append(paths, entry.Path)
		}
	}
	if len(paths) > 0 {
		digests, err := a.hasher.HashFiles(ctx, paths)
		if err != nil {
			return zerr.Wrap(err, "failed to hash cache entries")
		}
		for j, i := range missing {
			entries[i].Digest = digests[j]
		}
	}

	names := configuredNames(model)
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		fetched := "-"
		if rec, _ := cache.Lookup(entry.Kind, entry.Address); rec != nil && !rec.FetchedAt.IsZero() {
			fetched = rec.FetchedAt.Local().Format(time.DateTime)
			if rec.Patched {
				fetched += " (patched)"
			}
		}

		name := names[domain.RecordKey(entry.Kind, entry.Address)]
		if name == "" {
			name = "-"
		}

		rows = append(rows, []string{
			string(entry.Kind),
			name,
			entry.Address,
			formatSize(entry.Size),
			entry.Digest,
			fetched,
		})
	}

	_, _ = fmt.Fprintln(a.out, style.Table(
		[]string{"KIND", "NAME", "ADDRESS", "SIZE", "DIGEST", "FETCHED"},
		rows,
	))
	return nil
}

// CacheCleanOptions configuration for the CacheClean method.
type CacheCleanOptions struct {
	ConfigPath string
	// Kinds limits the removal; empty removes every kind.
	Kinds []domain.ArtifactKind
}

// CacheClean removes cached artifacts.
func (a *App) CacheClean(_ context.Context, opts CacheCleanOptions) error {
	cache, _, err := a.openCache(opts.ConfigPath)
	if err != nil {
		return err
	}

	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = domain.Kinds()
	}

	for _, kind := range kinds {
		a.logger.Info(fmt.Sprintf("removing %s...", cache.Dir(kind)))
	}
	if err := cache.Clean(kinds); err != nil {
		return zerr.Wrap(err, "failed to clean cache")
	}
	a.logger.Info("cache cleaned")
	return nil
}

// openCache opens the configured cache. A missing configuration file falls back to
// the default cache root so the cache can be managed from anywhere.
func (a *App) openCache(path string) (ports.ArtifactCache, *domain.Model, error) {
	model, err := a.load(path)
	if err != nil {
		if !errors.Is(err, domain.ErrConfigNotFound) {
			return nil, nil, err
		}
		model = &domain.Model{Settings: domain.Settings{CacheDir: domain.DefaultCacheDir}}
	}

	cache, err := a.opener.Open(model.Settings.CacheDir)
	if err != nil {
		return nil, nil, zerr.Wrap(err, "failed to open cache")
	}
	return cache, model, nil
}

func configuredNames(model *domain.Model) map[string]string {
	names := make(map[string]string, model.Total())
	for _, acct := range model.Accounts {
		names[domain.RecordKey(domain.KindAccount, acct.Address)] = acct.Name
	}
	for _, prog := range model.Programs {
		names[domain.RecordKey(domain.KindProgram, prog.Address)] = prog.Name
	}
	return names
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
