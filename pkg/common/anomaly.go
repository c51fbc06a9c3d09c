package common

import (
	"time"

	"github.com/quantfold/replay/pkg/utility"
	"github.com/quantfold/replay/pkg/utility/fixed"
)

type AnomalyKind string

const (
	// AnomalyNegativeCash is raised when a fill leaves the portfolio with
	// negative cash. The run continues; the anomaly is diagnostic only.
	AnomalyNegativeCash AnomalyKind = "negative-cash"
	// AnomalyOrderNotApplied is raised when a non-filled order reaches the
	// portfolio and is ignored.
	AnomalyOrderNotApplied AnomalyKind = "order-not-applied"
)

// Anomaly is a non-fatal accounting irregularity observed during a step.
type Anomaly struct {
	Kind    AnomalyKind `json:"kind"`
	Message string      `json:"message,omitempty"`
	Cash    fixed.Point `json:"cash"`

	Source      string              `json:"src,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}

// OrderUnfilled reports the remainder of an order that could not be executed
// at its matching step.
type OrderUnfilled struct {
	Remainder Series `json:"remainder"`

	Source      string              `json:"src,omitempty"`
	ExecutionID utility.ExecutionID `json:"eid,omitempty"`
	TraceID     utility.TraceID     `json:"tid,omitempty"`
	TimeStamp   time.Time           `json:"ts"`
}
