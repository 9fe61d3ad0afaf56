package main

import (
	"context"
	"fmt"
	"io"
	"os/user"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fr4nk3nst1ner/jobboard/internal/board"
	"github.com/fr4nk3nst1ner/jobboard/internal/cache"
	"github.com/fr4nk3nst1ner/jobboard/internal/client"
	"github.com/fr4nk3nst1ner/jobboard/internal/config"
	"github.com/fr4nk3nst1ner/jobboard/internal/fetcher"
	"github.com/fr4nk3nst1ner/jobboard/internal/render"
	"github.com/fr4nk3nst1ner/jobboard/internal/session"
)

// newFetcher builds the listings fetcher. progress may be nil.
func newFetcher(c *config.Config, progress io.Writer) (*fetcher.Fetcher, error) {
	httpClient, err := client.CreateHTTPClient(c.API.Proxy, c.API.Timeout)
	if err != nil {
		return nil, err
	}
	opts := []fetcher.Option{fetcher.WithHTTPClient(httpClient), fetcher.WithLogger(logger)}
	if progress != nil {
		opts = append(opts, fetcher.WithProgress(progress))
	}
	return fetcher.New(c.API.URL, opts...), nil
}

// storageFactory returns a constructor of session-scoped storage for the
// configured backend, plus a cleanup func.
func storageFactory(ctx context.Context, c *config.Config) (func(id string) session.Store, func(), error) {
	switch c.Storage.Backend {
	case "redis":
		rdb, err := session.Dial(ctx, c.Storage.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return func(id string) session.Store {
			return session.NewRedis(rdb, id, c.Storage.SessionTTL)
		}, func() { closeRedis(rdb) }, nil
	case "memory", "":
		return func(string) session.Store { return session.NewMemory() }, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
}

func closeRedis(rdb *redis.Client) {
	if err := rdb.Close(); err != nil {
		logger.Warn("closing redis", logger.Args("error", err))
	}
}

// boardFactory builds boards that share one fetcher
func boardFactory(c *config.Config, f board.JobFetcher, narrow bool, hook func(render.View)) func(session.Store) *board.Board {
	return func(storage session.Store) *board.Board {
		store := cache.NewStore(storage,
			cache.WithDuration(c.Cache.Duration),
			cache.WithLogger(logger),
		)
		opts := []board.Option{
			board.WithCacheKey(c.Cache.Key),
			board.WithNarrowing(narrow),
			board.WithLogger(logger),
		}
		if hook != nil {
			opts = append(opts, board.WithRenderHook(hook))
		}
		return board.New(store, f, opts...)
	}
}

// cliSessionID keys terminal runs of one user to the same session, so that
// quick successive runs share the cache when storage outlives the process.
func cliSessionID() string {
	if u, err := user.Current(); err == nil {
		return "cli-" + u.Username
	}
	return "cli"
}

func loadTimeout(c *config.Config) time.Duration {
	return c.API.Timeout + 5*time.Second
}
