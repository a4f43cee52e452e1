package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Sentinel errors surfaced by the service layer. Handlers translate these
// into API error codes; not-found deliberately covers both absent records
// and records outside the caller's organization.
var (
	ErrOrganizationNotFound = errors.New("organization service: organization not found")
	ErrUserNotFound         = errors.New("user service: user not found")
	ErrDepartmentNotFound   = errors.New("job service: department not found")
	ErrJobNotFound          = errors.New("job service: job not found")
	ErrCandidateNotFound    = errors.New("candidate service: candidate not found")
	ErrApplicationNotFound  = errors.New("pipeline service: application not found")
	ErrInterviewNotFound    = errors.New("interview service: interview not found")
	ErrFeedbackNotFound     = errors.New("feedback service: feedback not found")
	ErrTemplateNotFound     = errors.New("feedback service: template not found")
	ErrNoteNotFound         = errors.New("candidate service: note not found")

	// ErrInvalidTransition rejects state-machine steps not permitted from
	// the entity's current state.
	ErrInvalidTransition = errors.New("transition not permitted from current state")

	// ErrAlreadyTerminal rejects mutations of applications in hired,
	// rejected, or withdrawn stage.
	ErrAlreadyTerminal = errors.New("application is in a terminal stage")

	// ErrAlreadySubmitted rejects re-submission of finalised feedback.
	ErrAlreadySubmitted = errors.New("feedback already submitted")

	// ErrInvalidFeedback rejects feedback that fails submit-time or
	// input validation, such as a missing verdict or an out-of-range
	// rating.
	ErrInvalidFeedback = errors.New("feedback service: invalid feedback")

	// ErrConcurrentModification reports a lost optimistic-lock race on a
	// stage-mutating operation; the caller should re-fetch and retry.
	ErrConcurrentModification = errors.New("application modified concurrently")

	// ErrPlanLimitReached reports an exhausted organization quota.
	ErrPlanLimitReached = errors.New("organization plan limit reached")

	ErrDuplicateCandidate   = errors.New("candidate service: candidate already exists for this organization")
	ErrDuplicateApplication = errors.New("pipeline service: candidate already applied to this job")
	ErrDuplicateFeedback    = errors.New("feedback service: feedback already exists for this interviewer")
)

// isUniqueConstraintError detects database uniqueness constraint violations across vendors.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") ||
		strings.Contains(lower, "duplicate") ||
		strings.Contains(lower, "constraint")
}
