package mapper

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"cellar-sync/internal/cellar_sync/parser"
)

// MapWine normalizes one List row into a flat wine record. syncedAt is the
// single per-run timestamp; passing it in keeps the whole batch coherent.
func MapWine(rec parser.Record, syncedAt time.Time) bson.M {
	wine := mapRecord(rec, wineFields)

	// Quantity is re-derived from the Quantity column whether or not the
	// generic table covered it.
	if raw, ok := rec["Quantity"]; ok {
		setInt(wine, "quantity", parser.ParseInt(raw))
	}

	scores := bson.M{}
	for _, col := range criticScoreColumns {
		if v := parser.ParseNumber(rec[col]); v != nil {
			scores[col] = *v
		}
	}
	if len(scores) > 0 {
		wine["critic_scores"] = scores
	}

	wine["last_sync_at"] = syncedAt
	return wine
}

// MapBottle normalizes one Bottles row into a flat bottle record.
func MapBottle(rec parser.Record, syncedAt time.Time) bson.M {
	bottle := mapRecord(rec, bottleFields)
	if _, ok := bottle["bottle_state"]; !ok {
		bottle["bottle_state"] = 1
	}
	bottle["last_sync_at"] = syncedAt
	return bottle
}

func mapRecord(rec parser.Record, fields []fieldMapping) bson.M {
	out := bson.M{}
	for _, f := range fields {
		raw, ok := rec[f.Source]
		if !ok {
			continue
		}
		switch f.Kind {
		case coerceKey:
			out[f.Target] = raw
		case coerceNumber:
			setNumber(out, f.Target, parser.ParseNumber(raw))
		case coerceInt:
			setInt(out, f.Target, parser.ParseInt(raw))
		case coerceDate:
			setString(out, f.Target, parser.ParseDate(raw))
		case coerceState:
			// Unknown state means the bottle is assumed in stock.
			if v := parser.ParseInt(raw); v != nil {
				out[f.Target] = *v
			} else {
				out[f.Target] = 1
			}
		default:
			if raw == "" {
				out[f.Target] = nil
			} else {
				out[f.Target] = raw
			}
		}
	}
	return out
}

func setNumber(m bson.M, key string, v *float64) {
	if v != nil {
		m[key] = *v
	} else {
		m[key] = nil
	}
}

func setInt(m bson.M, key string, v *int) {
	if v != nil {
		m[key] = *v
	} else {
		m[key] = nil
	}
}

func setString(m bson.M, key string, v *string) {
	if v != nil {
		m[key] = *v
	} else {
		m[key] = nil
	}
}
