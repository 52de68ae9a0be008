package processor

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"cellar-sync/internal/cellar_sync/mapper"
	"cellar-sync/internal/cellar_sync/model"
	"cellar-sync/internal/cellar_sync/parser"
	"cellar-sync/internal/cellar_sync/validator"
)

// batchSize keeps each upsert request under the store's row-count limits.
const batchSize = 100

// Store is the keyed-upsert store contract the pipeline writes to and the
// validator reads back from.
type Store interface {
	Upsert(ctx context.Context, coll string, rows []bson.M, key string) error
	Page(ctx context.Context, coll string, filter bson.M, skip, limit int64) ([]bson.M, error)
	Count(ctx context.Context, coll string, filter bson.M) (int64, error)
	InsertSyncRun(ctx context.Context, run *model.SyncRun) error
}

// Pipeline is one full sync run: fetch both exports, map, reconcile, upsert
// in batches, validate the persisted state and record the run. Stages are
// strictly sequential; the first store or fetch failure aborts the run.
type Pipeline struct {
	Log    *zap.Logger
	Client *Client
	Store  Store
}

// Run always returns a structured summary; fatal errors land in the error
// shape rather than escaping. The audit row is persisted best-effort in
// either case.
func (p *Pipeline) Run(ctx context.Context) *model.SyncSummary {
	syncedAt := time.Now().UTC()
	summary := &model.SyncSummary{SyncedAt: syncedAt}

	if p.Client.User == "" || p.Client.Password == "" {
		return p.fail(ctx, summary, errors.New("cellartracker credentials not configured"))
	}

	p.Log.Info("Fetching wine list from CellarTracker")
	listCSV, err := p.Client.FetchTable(ctx, TableList)
	if err != nil {
		return p.fail(ctx, summary, err)
	}
	listRecords := parser.Decode(listCSV)
	p.Log.Info("Parsed wine list", zap.Int("wines", len(listRecords)))

	p.Log.Info("Fetching bottles from CellarTracker")
	bottlesCSV, err := p.Client.FetchTable(ctx, TableBottles)
	if err != nil {
		return p.fail(ctx, summary, err)
	}
	rawBottles := parser.Decode(bottlesCSV)
	p.Log.Info("Parsed bottles", zap.Int("bottles", len(rawBottles)))

	wines := make([]bson.M, 0, len(listRecords))
	for _, rec := range listRecords {
		wines = append(wines, mapper.MapWine(rec, syncedAt))
	}
	bottles := make([]bson.M, 0, len(rawBottles))
	for _, rec := range rawBottles {
		bottles = append(bottles, mapper.MapBottle(rec, syncedAt))
	}

	wineSet, bottleSet := Reconcile(wines, bottles, rawBottles, syncedAt)
	if n := len(wineSet) - len(wines); n > 0 {
		p.Log.Info("Synthesized wines for bottles missing from the list", zap.Int("count", n))
	}

	p.Log.Info("Upserting wines", zap.Int("count", len(wineSet)))
	if err := p.upsertBatches(ctx, model.CollWines, wineSet, model.WineKey); err != nil {
		return p.fail(ctx, summary, err)
	}
	summary.WinesUpserted = len(wineSet)

	p.Log.Info("Upserting bottles", zap.Int("count", len(bottleSet)))
	if err := p.upsertBatches(ctx, model.CollBottles, bottleSet, model.BottleKey); err != nil {
		return p.fail(ctx, summary, err)
	}
	summary.BottlesUpserted = len(bottleSet)

	totals, err := p.readTotals(ctx)
	if err != nil {
		return p.fail(ctx, summary, err)
	}
	summary.Totals = totals

	v := &validator.Validator{Log: p.Log, Store: p.Store}
	checks, status, err := v.Run(ctx)
	if err != nil {
		return p.fail(ctx, summary, err)
	}
	summary.Validation = checks
	summary.Status = status
	summary.Success = true

	p.audit(ctx, summary)
	p.Log.Info("Sync complete",
		zap.String("status", status),
		zap.Int("winesUpserted", summary.WinesUpserted),
		zap.Int("bottlesUpserted", summary.BottlesUpserted),
	)
	return summary
}

// upsertBatches writes the set in fixed-size chunks, in order, aborting on
// the first failed chunk.
func (p *Pipeline) upsertBatches(ctx context.Context, coll string, rows []bson.M, key string) error {
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := p.Store.Upsert(ctx, coll, rows[i:end], key); err != nil {
			p.Log.Error("Batch upsert failed",
				zap.String("collection", coll),
				zap.Int("offset", i),
				zap.Error(err),
			)
			return err
		}
	}
	return nil
}

func (p *Pipeline) readTotals(ctx context.Context) (*model.Totals, error) {
	wines, err := p.Store.Count(ctx, model.CollWines, nil)
	if err != nil {
		return nil, err
	}
	bottles, err := p.Store.Count(ctx, model.CollBottles, nil)
	if err != nil {
		return nil, err
	}
	inStock, err := p.Store.Count(ctx, model.CollBottles, bson.M{"bottle_state": 1})
	if err != nil {
		return nil, err
	}
	return &model.Totals{
		Wines:    wines,
		Bottles:  bottles,
		InStock:  inStock,
		Consumed: bottles - inStock,
	}, nil
}

func (p *Pipeline) fail(ctx context.Context, summary *model.SyncSummary, err error) *model.SyncSummary {
	p.Log.Error("Sync failed", zap.Error(err))
	summary.Success = false
	summary.Error = err.Error()
	p.audit(ctx, summary)
	return summary
}

// audit persists the run record. Losing the audit row is not worth failing a
// run over, so errors are only logged.
func (p *Pipeline) audit(ctx context.Context, summary *model.SyncSummary) {
	status := summary.Status
	if !summary.Success {
		status = model.StatusFailed
	}
	run := &model.SyncRun{
		SyncedAt:        summary.SyncedAt,
		Source:          model.SourceCellarTracker,
		Status:          status,
		WinesUpserted:   summary.WinesUpserted,
		BottlesUpserted: summary.BottlesUpserted,
		Validation:      summary.Validation,
		Error:           summary.Error,
		CreatedAt:       time.Now().UTC(),
	}
	if err := p.Store.InsertSyncRun(ctx, run); err != nil {
		p.Log.Warn("Failed to persist sync run", zap.Error(err))
	}
}
