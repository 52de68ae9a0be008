package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store collection names.
const (
	CollWines    = "wines"
	CollBottles  = "bottles"
	CollSyncRuns = "sync_runs"
)

// Natural keys used for upsert conflict resolution.
const (
	WineKey   = "ct_wine_id"
	BottleKey = "ct_bottle_id"
)

const SourceCellarTracker = "cellartracker"

// Overall run statuses, reduced from validation results.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Per-check statuses.
const (
	CheckPass    = "pass"
	CheckFail    = "fail"
	CheckWarning = "warning"
)

// Check severities. A failing critical check fails the run, a failing
// error check degrades it to partial, warnings never affect the status.
const (
	SeverityCritical = "critical"
	SeverityError    = "error"
	SeverityWarning  = "warning"
)

// ValidationCheck is the result of one post-sync data quality check.
type ValidationCheck struct {
	Name     string   `bson:"name" json:"name"`
	Status   string   `bson:"status" json:"status"`
	Severity string   `bson:"severity" json:"severity"`
	Count    int      `bson:"count,omitempty" json:"count,omitempty"`
	Details  []string `bson:"details,omitempty" json:"details,omitempty"`
}

// SyncRun is the audit record persisted once per pipeline run, including
// failed runs (best-effort).
type SyncRun struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SyncedAt        time.Time          `bson:"synced_at" json:"synced_at"`
	Source          string             `bson:"source" json:"source"`
	Status          string             `bson:"status" json:"status"`
	WinesUpserted   int                `bson:"wines_upserted" json:"wines_upserted"`
	BottlesUpserted int                `bson:"bottles_upserted" json:"bottles_upserted"`
	Validation      []ValidationCheck  `bson:"validation,omitempty" json:"validation,omitempty"`
	Error           string             `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"created_at"`
}

// Totals are row counts read back from the store after the write phases.
type Totals struct {
	Wines    int64 `json:"wines"`
	Bottles  int64 `json:"bottles"`
	InStock  int64 `json:"in_stock"`
	Consumed int64 `json:"consumed"`
}

// SyncSummary is the structured result returned to the caller for every run,
// success or failure. A fatal error leaves Success false and Error set.
type SyncSummary struct {
	Success         bool              `json:"success"`
	SyncedAt        time.Time         `json:"synced_at"`
	Status          string            `json:"status,omitempty"`
	WinesUpserted   int               `json:"wines_upserted"`
	BottlesUpserted int               `json:"bottles_upserted"`
	Totals          *Totals           `json:"totals,omitempty"`
	Validation      []ValidationCheck `json:"validation,omitempty"`
	Error           string            `json:"error,omitempty"`
}
