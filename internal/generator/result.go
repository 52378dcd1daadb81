package generator

import (
	"time"

	"github.com/google/uuid"

	"catdistribution-api/internal/models"
)

type Stage string

const (
	StageBuild       Stage = "build"
	StageOwner       Stage = "owner"
	StagePersist     Stage = "persist"
	StagePublishCat  Stage = "publish_cat"
	StageList        Stage = "list"
	StagePublishList Stage = "publish_list"
)

// TickError records which step of a tick failed.
type TickError struct {
	Stage Stage
	Err   error
}

func (e *TickError) Error() string { return "tick " + string(e.Stage) + ": " + e.Err.Error() }

func (e *TickError) Unwrap() error { return e.Err }

type TickResult struct {
	Session  uuid.UUID
	Cat      *models.Cat
	Skipped  bool
	Err      error
	Duration time.Duration
}

func (r TickResult) OK() bool { return !r.Skipped && r.Err == nil }
