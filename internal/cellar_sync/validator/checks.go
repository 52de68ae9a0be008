package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"cellar-sync/internal/cellar_sync/model"
)

// pageSize for the read-until-short-page loops against the store.
const pageSize = 1000

// Caps on how many offending samples a check reports.
const (
	maxOrphanSamples   = 5
	maxBinSamples      = 10
	maxEncodingSamples = 5
)

// Store is the slice of the store contract the validator consumes.
type Store interface {
	Page(ctx context.Context, coll string, filter bson.M, skip, limit int64) ([]bson.M, error)
	Count(ctx context.Context, coll string, filter bson.M) (int64, error)
}

// Validator runs the post-sync data quality battery against persisted state.
type Validator struct {
	Log   *zap.Logger
	Store Store
}

// Run executes every check and reduces them to an overall run status.
// Check outcomes are data, never errors; only a store read failure aborts.
func (v *Validator) Run(ctx context.Context) ([]model.ValidationCheck, string, error) {
	var wineCount int
	wineKeys := make(map[string]bool)
	var wineNames []string

	err := v.eachPage(ctx, model.CollWines, nil, func(row bson.M) {
		wineCount++
		if id, ok := stringField(row, model.WineKey); ok && id != "" {
			wineKeys[id] = true
		}
		if name, ok := stringField(row, "wine_name"); ok {
			wineNames = append(wineNames, name)
		}
	})
	if err != nil {
		return nil, "", fmt.Errorf("validation: read wines: %w", err)
	}

	var bottleCount int
	orphanBottles := 0
	orphanIDs := make(map[string]bool)
	locationAnomalies := 0
	binOccupancy := make(map[string]int)

	err = v.eachPage(ctx, model.CollBottles, nil, func(row bson.M) {
		bottleCount++

		wineID, _ := stringField(row, "wine_id")
		if !wineKeys[wineID] {
			orphanBottles++
			orphanIDs[wineID] = true
		}

		if intField(row, "bottle_state") != 1 {
			return
		}
		loc, _ := stringField(row, "location")
		if loc == "" || loc == "none" {
			locationAnomalies++
			return
		}
		if bin, ok := stringField(row, "bin"); ok && bin != "" {
			binOccupancy[loc+":"+bin]++
		}
	})
	if err != nil {
		return nil, "", fmt.Errorf("validation: read bottles: %w", err)
	}

	checks := []model.ValidationCheck{
		countCheck("wine_count", wineCount),
		countCheck("bottle_count", bottleCount),
		orphanCheck(orphanBottles, orphanIDs),
		locationCheck(locationAnomalies),
		binCheck(binOccupancy),
		encodingCheck(wineNames),
	}

	status := Reduce(checks)
	v.Log.Info("validation finished",
		zap.String("status", status),
		zap.Int("wines", wineCount),
		zap.Int("bottles", bottleCount),
	)
	return checks, status, nil
}

func (v *Validator) eachPage(ctx context.Context, coll string, filter bson.M, fn func(bson.M)) error {
	for skip := int64(0); ; skip += pageSize {
		rows, err := v.Store.Page(ctx, coll, filter, skip, pageSize)
		if err != nil {
			return err
		}
		for _, row := range rows {
			fn(row)
		}
		if int64(len(rows)) < pageSize {
			return nil
		}
	}
}

// countCheck guards against an empty table after a supposedly successful sync.
func countCheck(name string, n int) model.ValidationCheck {
	status := model.CheckPass
	if n == 0 {
		status = model.CheckFail
	}
	return model.ValidationCheck{
		Name:     name,
		Status:   status,
		Severity: model.SeverityCritical,
		Count:    n,
	}
}

func orphanCheck(count int, ids map[string]bool) model.ValidationCheck {
	check := model.ValidationCheck{
		Name:     "orphan_bottles",
		Status:   model.CheckPass,
		Severity: model.SeverityError,
	}
	if count == 0 {
		return check
	}
	check.Status = model.CheckFail
	check.Count = count
	check.Details = sortedSamples(ids, maxOrphanSamples)
	return check
}

func locationCheck(count int) model.ValidationCheck {
	check := model.ValidationCheck{
		Name:     "location_anomalies",
		Status:   model.CheckPass,
		Severity: model.SeverityWarning,
	}
	if count > 0 {
		check.Status = model.CheckWarning
		check.Count = count
	}
	return check
}

func binCheck(occupancy map[string]int) model.ValidationCheck {
	check := model.ValidationCheck{
		Name:     "bin_overcapacity",
		Status:   model.CheckPass,
		Severity: model.SeverityWarning,
	}

	var over []string
	for slot, count := range occupancy {
		bin := slot[strings.LastIndex(slot, ":")+1:]
		if capacity := BinCapacity(bin); count > capacity {
			over = append(over, fmt.Sprintf("%s (%d/%d)", slot, count, capacity))
		}
	}
	if len(over) == 0 {
		return check
	}
	sort.Strings(over)
	check.Status = model.CheckWarning
	check.Count = len(over)
	if len(over) > maxBinSamples {
		over = over[:maxBinSamples]
	}
	check.Details = over
	return check
}

// encodingCheck flags wine names carrying the UTF-8 replacement character, a
// sign the upstream export was decoded with the wrong charset.
func encodingCheck(names []string) model.ValidationCheck {
	check := model.ValidationCheck{
		Name:     "encoding_issues",
		Status:   model.CheckPass,
		Severity: model.SeverityWarning,
	}
	var bad []string
	for _, name := range names {
		if strings.ContainsRune(name, utf8.RuneError) {
			bad = append(bad, name)
		}
	}
	if len(bad) == 0 {
		return check
	}
	check.Status = model.CheckWarning
	check.Count = len(bad)
	if len(bad) > maxEncodingSamples {
		bad = bad[:maxEncodingSamples]
	}
	check.Details = bad
	return check
}

// Reduce folds check results into the run status: a failing critical check
// means "failed", else a failing error check means "partial", else "success".
// Warnings never change the status.
func Reduce(checks []model.ValidationCheck) string {
	status := model.StatusSuccess
	for _, c := range checks {
		if c.Status != model.CheckFail {
			continue
		}
		if c.Severity == model.SeverityCritical {
			return model.StatusFailed
		}
		if c.Severity == model.SeverityError {
			status = model.StatusPartial
		}
	}
	return status
}

func sortedSamples(set map[string]bool, max int) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	if len(out) > max {
		out = out[:max]
	}
	return out
}

func stringField(row bson.M, key string) (string, bool) {
	v, ok := row[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func intField(row bson.M, key string) int {
	switch v := row[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
