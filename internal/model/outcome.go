package model

// OutcomeStatus classifies the result of processing one pipeline unit. The
// pipeline never raises past its boundary for expected failure classes; it
// reports one of these instead so callers can tell "not found" from
// "transient failure" from "validation rejected".
type OutcomeStatus string

const (
	OutcomeOK                 OutcomeStatus = "ok"
	OutcomeSkipped            OutcomeStatus = "skipped"
	OutcomeNotFound           OutcomeStatus = "not_found"
	OutcomeTransientFailure   OutcomeStatus = "transient_failure"
	OutcomeValidationRejected OutcomeStatus = "validation_rejected"
)

// ProcessOutcome is the per-unit result of the video processing pipeline.
type ProcessOutcome struct {
	VideoID string
	Status  OutcomeStatus
	Track   *AudioTrackData
	Reason  string
}

// Success reports whether the unit produced a usable track.
func (o ProcessOutcome) Success() bool {
	return o.Status == OutcomeOK && o.Track != nil
}
