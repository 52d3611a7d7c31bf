package main

import (
	"context"
	"fmt"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/san-kum/binhab/internal/cache"
)

// openCache returns nil when caching is off or the database cannot be
// opened; callers then compute everything.
func openCache() *cache.Store {
	if noCache || settings.CachePath == "" {
		return nil
	}
	c, err := cache.Open(settings.CachePath, settings.CacheTTL)
	if err != nil {
		level.Warn(logger).Log("msg", "cache unavailable", "path", settings.CachePath, "err", err)
		return nil
	}
	return c
}

// cached loads kind/params from the cache into v, or computes it with fn
// and stores the result.
func cached(ctx context.Context, c *cache.Store, kind string, params map[string]any, v any, fn func() error) error {
	if c == nil {
		return fn()
	}
	key, err := cache.Signature(kind, params)
	if err != nil {
		return err
	}
	ok, err := c.LoadJSON(ctx, key, v)
	if err != nil {
		level.Warn(logger).Log("msg", "cache read failed", "key", key, "err", err)
		if ierr := c.Invalidate(ctx, key); ierr != nil {
			level.Warn(logger).Log("msg", "cache invalidate failed", "key", key, "err", ierr)
		}
	}
	if ok {
		level.Debug(logger).Log("msg", "cache hit", "key", key)
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	if err := c.SaveJSON(ctx, key, v); err != nil {
		level.Warn(logger).Log("msg", "cache write failed", "key", key, "err", err)
	}
	return nil
}

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "manage the result cache",
	}
	var kind string
	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "delete cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cache.Open(settings.CachePath, settings.CacheTTL)
			if err != nil {
				return err
			}
			defer c.Close()
			n, err := c.Purge(cmd.Context(), kind)
			if err != nil {
				return err
			}
			fmt.Printf("purged %d entries\n", n)
			return nil
		},
	}
	purgeCmd.Flags().StringVar(&kind, "kind", "", "only purge one kind (hz, periodlaw)")
	cacheCmd.AddCommand(purgeCmd)
	return cacheCmd
}
