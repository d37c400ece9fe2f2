package services

import "errors"

// Shared sentinel errors, mapped to HTTP statuses in handlers.
var (
	// Generic not-found. Also covers cross-scope access: a child reached
	// through the wrong parent reports the same class of error, so the
	// API does not reveal that the resource exists elsewhere.
	ErrNotFound           = errors.New("requested resource not found")
	ErrActionNotPermitted = errors.New("action not permitted")

	// Validation and business rules.
	ErrValidationFailed       = errors.New("validation failed")
	ErrPasswordTooShort       = errors.New("password must be at least 8 characters")
	ErrInvalidRole            = errors.New("role must be admin or viewer")
	ErrInvalidMatchStatus     = errors.New("match status must be inProgress or finished")
	ErrTournamentNameRequired = errors.New("tournament name is required")
	ErrTournamentInvalidDates = errors.New("tournament end date must be after start date")
	ErrTeamFieldsRequired     = errors.New("team name, coach and branch are required")
	ErrPlayerFieldsRequired   = errors.New("player name, last name, curp and position are required")
	ErrMatchTeamsRequired     = errors.New("local and visitor team names are required")
	ErrMatchTeamsNotFound     = errors.New("one or both teams do not exist in this tournament")
	ErrMatchBranchMismatch    = errors.New("teams do not belong to the same branch")
	ErrAttachmentMissing      = errors.New("all four player documents are required")
	ErrAttachmentInvalidType  = errors.New("attachments must be PDF, JPG or PNG files")

	// Conflicts.
	ErrUserEmailConflict      = errors.New("a user with this email is already registered")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrTeamConflict           = errors.New("team already exists in this tournament and branch")
	ErrPlayerCURPConflict     = errors.New("a player with this curp is already registered")
	ErrPlayerNumberConflict   = errors.New("a player with this jersey number is already registered")
	ErrPlayerIPNConflict      = errors.New("a player with this institutional id is already registered")

	// Authentication and authorization.
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountNotConfirmed = errors.New("account not confirmed, a new confirmation code was sent")
	ErrTokenInvalid        = errors.New("invalid or expired token")
	ErrForbiddenOperation  = errors.New("operation not allowed for the current user")

	// Entity-specific not-found variants for clearer wrapping context.
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMatchNotFound      = errors.New("match not found")
)
