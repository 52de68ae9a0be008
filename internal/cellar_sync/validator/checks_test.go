package validator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"cellar-sync/internal/cellar_sync/model"
	"cellar-sync/internal/cellar_sync/testhelpers"
)

func newValidator(store *testhelpers.FakeStore) *Validator {
	return &Validator{Log: zap.NewNop(), Store: store}
}

func wine(id, name string) bson.M {
	return bson.M{"ct_wine_id": id, "wine_name": name}
}

func bottle(id, wineID string, state int, location, bin string) bson.M {
	row := bson.M{
		"ct_bottle_id": id,
		"wine_id":      wineID,
		"bottle_state": state,
	}
	if location != "" {
		row["location"] = location
	}
	if bin != "" {
		row["bin"] = bin
	}
	return row
}

func findCheck(t *testing.T, checks []model.ValidationCheck, name string) model.ValidationCheck {
	t.Helper()
	for _, c := range checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %q not found", name)
	return model.ValidationCheck{}
}

func TestRunAllPass(t *testing.T) {
	store := testhelpers.NewFakeStore()
	store.Seed(model.CollWines, model.WineKey, wine("100", "Margaux"))
	store.Seed(model.CollBottles, model.BottleKey, bottle("B1", "100", 1, "Cellar", "A5"))

	checks, status, err := newValidator(store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StatusSuccess, status)
	require.Len(t, checks, 6)
	for _, c := range checks {
		assert.Equal(t, model.CheckPass, c.Status, c.Name)
	}
}

func TestEmptyTablesFailCritical(t *testing.T) {
	store := testhelpers.NewFakeStore()

	checks, status, err := newValidator(store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, status)
	assert.Equal(t, model.CheckFail, findCheck(t, checks, "wine_count").Status)
	assert.Equal(t, model.CheckFail, findCheck(t, checks, "bottle_count").Status)
}

func TestOrphanBottles(t *testing.T) {
	store := testhelpers.NewFakeStore()
	store.Seed(model.CollWines, model.WineKey, wine("100", "Margaux"))
	store.Seed(model.CollBottles, model.BottleKey,
		bottle("B1", "100", 1, "Cellar", "A5"),
		bottle("B2", "777", 1, "Cellar", "A6"),
		bottle("B3", "888", 0, "", ""),
	)

	checks, status, err := newValidator(store).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StatusPartial, status)

	orphans := findCheck(t, checks, "orphan_bottles")
	assert.Equal(t, model.CheckFail, orphans.Status)
	assert.Equal(t, model.SeverityError, orphans.Severity)
	assert.Equal(t, 2, orphans.Count)
	assert.Equal(t, []string{"777", "888"}, orphans.Details)
}

func TestOrphanSamplesCapped(t *testing.T) {
	store := testhelpers.NewFakeStore()
	store.Seed(model.CollWines, model.WineKey, wine("100", "Margaux"))
	rows := []bson.M{bottle("B0", "100", 1, "Cellar", "A5")}
	for i := 0; i < 8; i++ {
		rows = append(rows, bottle(fmt.Sprintf("B%d", i+1), fmt.Sprintf("90%d", i), 1, "Cellar", "A5"))
	}
	store.Seed(model.CollBottles, model.BottleKey, rows...)

	checks, _, err := newValidator(store).Run(context.Background())
	require.NoError(t, err)

	orphans := findCheck(t, checks, "orphan_bottles")
	assert.Equal(t, 8, orphans.Count)
	assert.Len(t, orphans.Details, 5)
}

func TestLocationAnomalies(t *testing.T) {
	store := testhelpers.NewFakeStore()
	store.Seed(model.CollWines, model.WineKey, wine("100", "Margaux"))
	store.Seed(model.CollBottles, model.BottleKey,
		bottle("B1", "100", 1, "", ""),           // missing
		bottle("B2", "100", 1, "none", ""),       // sentinel
		bottle("B3", "100", 0, "", ""),           // consumed, ignored
		bottle("B4", "100", 1, "Cellar", "A5"),   // fine
	)

	checks, status, err := newValidator(store).Run(context.Background())
	require.NoError(t, err)
	// warnings never degrade the run status
	assert.Equal(t, model.StatusSuccess, status)

	loc := findCheck(t, checks, "location_anomalies")
	assert.Equal(t, model.CheckWarning, loc.Status)
	assert.Equal(t, model.SeverityWarning, loc.Severity)
	assert.Equal(t, 2, loc.Count)
}

func TestBinOvercapacity(t *testing.T) {
	store := testhelpers.NewFakeStore()
	store.Seed(model.CollWines, model.WineKey, wine("100", "Margaux"))

	var rows []bson.M
	// E2 holds two bottles, three in it is one over
	for i := 0; i < 3; i++ {
		rows = append(rows, bottle(fmt.Sprintf("E%d", i), "100", 1, "Cellar", "E2"))
	}
	// consumed bottles never count against a bin
	rows = append(rows, bottle("X1", "100", 0, "Cellar", "E2"))
	// a no-limit label cannot overflow
	for i := 0; i < 50; i++ {
		rows = append(rows, bottle(fmt.Sprintf("Y%d", i), "100", 1, "Garage", "Yellow Box"))
	}
	store.Seed(model.CollBottles, model.BottleKey, rows...)

	checks, _, err := newValidator(store).Run(context.Background())
	require.NoError(t, err)

	bins := findCheck(t, checks, "bin_overcapacity")
	assert.Equal(t, model.CheckWarning, bins.Status)
	assert.Equal(t, 1, bins.Count)
	require.Len(t, bins.Details, 1)
	assert.Equal(t, "Cellar:E2 (3/2)", bins.Details[0])
}

func TestEncodingIssues(t *testing.T) {
	store := testhelpers.NewFakeStore()
	store.Seed(model.CollWines, model.WineKey,
		wine("100", "Ch�teau Margaux"),
		wine("101", "Clean Name"),
	)
	store.Seed(model.CollBottles, model.BottleKey, bottle("B1", "100", 1, "Cellar", "A5"))

	checks, _, err := newValidator(store).Run(context.Background())
	require.NoError(t, err)

	enc := findCheck(t, checks, "encoding_issues")
	assert.Equal(t, model.CheckWarning, enc.Status)
	assert.Equal(t, 1, enc.Count)
	assert.Equal(t, []string{"Ch�teau Margaux"}, enc.Details)
}

func TestReducePrecedence(t *testing.T) {
	critical := model.ValidationCheck{Status: model.CheckFail, Severity: model.SeverityCritical}
	errCheck := model.ValidationCheck{Status: model.CheckFail, Severity: model.SeverityError}
	warning := model.ValidationCheck{Status: model.CheckWarning, Severity: model.SeverityWarning}
	pass := model.ValidationCheck{Status: model.CheckPass, Severity: model.SeverityCritical}

	assert.Equal(t, model.StatusFailed, Reduce([]model.ValidationCheck{errCheck, critical, warning}))
	assert.Equal(t, model.StatusPartial, Reduce([]model.ValidationCheck{pass, errCheck, warning}))
	assert.Equal(t, model.StatusSuccess, Reduce([]model.ValidationCheck{pass, warning}))
	assert.Equal(t, model.StatusSuccess, Reduce(nil))
}
