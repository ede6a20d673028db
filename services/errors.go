package services

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

var (
	ErrTournamentNameRequired            = fmt.Errorf("%w: tournament name is required", models.ErrValidation)
	ErrTournamentInvalidFormat           = fmt.Errorf("%w: format must look like NvN, e.g. 1v1 or 5v5", models.ErrValidation)
	ErrTournamentInvalidBracketType      = fmt.Errorf("%w: bracket type must be single_elim or double_elim", models.ErrValidation)
	ErrTournamentInvalidStatus           = fmt.Errorf("%w: invalid tournament status provided", models.ErrValidation)
	ErrTournamentInvalidStatusTransition = fmt.Errorf("%w: invalid tournament status transition", models.ErrPrecondition)
	ErrBracketNotGenerated               = fmt.Errorf("%w: no bracket has been generated", models.ErrPrecondition)
	ErrBracketAlreadyGenerated           = fmt.Errorf("%w: bracket already generated, regenerate to replace it", models.ErrConflict)
	ErrArchiveUnavailable                = fmt.Errorf("%w: snapshot archive is not configured", models.ErrPrecondition)
)
