package processor

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"cellar-sync/internal/cellar_sync/model"
	"cellar-sync/internal/cellar_sync/parser"
)

// Reconcile merges the two independently fetched datasets into the final
// write sets. The List export drops wines that are fully consumed while the
// Bottles export keeps their history, so any wine referenced only by bottles
// is synthesized from bottle data to keep the reference intact.
func Reconcile(wines, bottles []bson.M, rawBottles []parser.Record, syncedAt time.Time) ([]bson.M, []bson.M) {
	wineSet := make([]bson.M, 0, len(wines))
	covered := make(map[string]bool, len(wines))
	for _, w := range wines {
		id, _ := w[model.WineKey].(string)
		if id == "" {
			continue
		}
		wineSet = append(wineSet, w)
		covered[id] = true
	}

	bottleSet := make([]bson.M, 0, len(bottles))
	for _, b := range bottles {
		id, _ := b[model.BottleKey].(string)
		wineID, _ := b["wine_id"].(string)
		if id == "" || wineID == "" {
			continue
		}
		bottleSet = append(bottleSet, b)
	}

	// Group the raw bottle rows of uncovered wines, first-seen order.
	var missing []string
	firstBottle := make(map[string]parser.Record)
	for _, raw := range rawBottles {
		wineID := raw["iWine"]
		if wineID == "" || covered[wineID] {
			continue
		}
		if _, seen := firstBottle[wineID]; !seen {
			missing = append(missing, wineID)
			firstBottle[wineID] = raw
		}
	}

	for _, wineID := range missing {
		wineSet = append(wineSet, synthesizeWine(wineID, firstBottle[wineID], syncedAt))
	}
	return wineSet, bottleSet
}

// synthesizeWine builds the minimal wine record the List export no longer
// carries. Quantity is zero: a wine known only through bottle history has no
// tracked stock.
func synthesizeWine(wineID string, bottle parser.Record, syncedAt time.Time) bson.M {
	wine := bson.M{
		model.WineKey:  wineID,
		"wine_name":    "Unknown",
		"quantity":     0,
		"last_sync_at": syncedAt,
	}
	if name := bottle["Wine"]; name != "" {
		wine["wine_name"] = name
	}
	carry := map[string]string{
		"Vintage":  "vintage",
		"Producer": "producer",
		"Varietal": "varietal",
		"Country":  "country",
		"Region":   "region",
		"Type":     "type",
		"Color":    "color",
	}
	for src, dst := range carry {
		if v := bottle[src]; v != "" {
			wine[dst] = v
		} else {
			wine[dst] = nil
		}
	}
	return wine
}
