package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathsheet/internal/history"
	"github.com/abhisek/mathsheet/internal/llm"
	"github.com/abhisek/mathsheet/internal/paginate"
	"github.com/abhisek/mathsheet/internal/platform/cache"
	"github.com/abhisek/mathsheet/internal/problemgen"
	"github.com/abhisek/mathsheet/internal/store"
	"github.com/abhisek/mathsheet/internal/workbook"
	"github.com/abhisek/mathsheet/internal/worksheet"
)

// deps holds what the worksheet commands share: the database, the
// optional Redis cache and a workbook wired to both.
type deps struct {
	store    *store.Store
	cache    *cache.Cache
	history  history.Store
	workbook *workbook.Workbook
	logger   *slog.Logger
}

// llmMode says whether a command needs an LLM provider.
type llmMode int

const (
	llmNone llmMode = iota
	llmOptional
	llmRequired
)

// openDeps opens the store, picks the history backend and builds the
// workbook. Labels follow the locale and the grade of settings.
func openDeps(cmd *cobra.Command, settings worksheet.Settings, mode llmMode) (*deps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := slog.Default()

	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{store: st, logger: logger}

	d.history = st.HistoryRepo()
	if appConfig.Cache.URL != "" {
		c, err := cache.New(ctx, appConfig.Cache.URL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect history cache: %w", err)
		}
		d.cache = c
		rs := history.NewRedisStore(c.Client, appConfig.Cache.HistoryKey)
		rs.MaxEntries = int64(appConfig.Cache.MaxEntries)
		d.history = rs
		logger.Debug("using shared history store", "key", appConfig.Cache.HistoryKey)
	}

	var runner workbook.Runner
	if mode != llmNone {
		provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo(), logger)
		switch {
		case err == nil:
			gen := problemgen.New(provider, problemgen.DefaultConfig())
			runner = problemgen.NewBatch(gen, appConfig.BatchDelay, logger)
		case mode == llmRequired:
			d.Close()
			return nil, fmt.Errorf("LLM provider not configured: %w", err)
		default:
			logger.Warn("LLM provider not configured, generation unavailable", "err", err)
		}
	}

	d.workbook = workbook.New(workbook.Options{
		Runner:    runner,
		Batches:   st.WorksheetRepo(),
		History:   d.history,
		Paginator: paginate.New(paginate.DefaultLayout(), paginate.LabelsFor(appConfig.Locale, settings.Grade)),
		Logger:    logger,
	})
	return d, nil
}

func (d *deps) Close() {
	if d.cache != nil {
		_ = d.cache.Close()
	}
	_ = d.store.Close()
}
