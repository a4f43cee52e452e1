package models

// Stage is the position of an application in the hiring pipeline.
type Stage string

const (
	StageApplied     Stage = "applied"
	StageScreening   Stage = "screening"
	StagePhoneScreen Stage = "phone_screen"
	StageTechnical   Stage = "technical"
	StageOnsite      Stage = "onsite"
	StageFinal       Stage = "final"
	StageOffer       Stage = "offer"
	StageHired       Stage = "hired"
	StageRejected    Stage = "rejected"
	StageWithdrawn   Stage = "withdrawn"
)

// ApplicationStatus records whether an application is still live,
// orthogonally to its pipeline position.
type ApplicationStatus string

const (
	ApplicationActive    ApplicationStatus = "active"
	ApplicationOnHold    ApplicationStatus = "on_hold"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
	ApplicationHired     ApplicationStatus = "hired"
)

// AllStages lists every pipeline stage in funnel order. Funnel reports must
// include a count for each member, zero or not.
var AllStages = []Stage{
	StageApplied,
	StageScreening,
	StagePhoneScreen,
	StageTechnical,
	StageOnsite,
	StageFinal,
	StageOffer,
	StageHired,
	StageRejected,
	StageWithdrawn,
}

// stageSuccessor is the linear forward progression of the pipeline. "offer"
// has no forward successor here: hiring is a distinct operation, and the
// terminal stages are absent by construction.
var stageSuccessor = map[Stage]Stage{
	StageApplied:     StageScreening,
	StageScreening:   StagePhoneScreen,
	StagePhoneScreen: StageTechnical,
	StageTechnical:   StageOnsite,
	StageOnsite:      StageFinal,
	StageFinal:       StageOffer,
}

// Next returns the linear successor of the stage, if one exists.
func (s Stage) Next() (Stage, bool) {
	next, ok := stageSuccessor[s]
	return next, ok
}

// IsTerminal reports whether no further stage mutation is permitted.
func (s Stage) IsTerminal() bool {
	switch s {
	case StageHired, StageRejected, StageWithdrawn:
		return true
	}
	return false
}

// Valid reports whether the stage is a member of the enumeration.
func (s Stage) Valid() bool {
	if s.IsTerminal() {
		return true
	}
	if _, ok := stageSuccessor[s]; ok {
		return true
	}
	return s == StageOffer
}

// StatusForStage derives the application status implied by a terminal stage.
// The mapping is the single place that enforces the stage/status consistency
// invariant; non-terminal stages imply no particular status (on_hold is
// toggled independently of stage) and report ok=false.
func StatusForStage(s Stage) (ApplicationStatus, bool) {
	switch s {
	case StageHired:
		return ApplicationHired, true
	case StageRejected:
		return ApplicationRejected, true
	case StageWithdrawn:
		return ApplicationWithdrawn, true
	}
	return ApplicationActive, false
}
