package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ActivationStatus names the outcome of an activation attempt.
type ActivationStatus string

const (
	// ActivationActivated means the account transitioned to confirmed.
	ActivationActivated ActivationStatus = "activated"
	// ActivationAlreadyConfirmed means the account was confirmed before this
	// attempt; re-using a still valid token is inert.
	ActivationAlreadyConfirmed ActivationStatus = "already-confirmed"
	// ActivationUserNotFound means no account matches the token's user id.
	ActivationUserNotFound ActivationStatus = "user-not-found"
)

// ActivationResult carries the outcome plus the affected user when one
// exists.
type ActivationResult struct {
	Status ActivationStatus
	User   *User
}

// ActivationStateMachine drives the one-directional unconfirmed to confirmed
// transition. The flag update and its "already confirmed?" guard run as a
// single statement in the repository, so concurrent attempts with the same
// token cannot both observe an unconfirmed account.
type ActivationStateMachine struct {
	users  Users
	logger Logger
}

type ActivationOption func(*ActivationStateMachine)

// WithActivationLogger overrides the state machine logger.
func WithActivationLogger(logger Logger) ActivationOption {
	return func(sm *ActivationStateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

func NewActivationStateMachine(users Users, opts ...ActivationOption) *ActivationStateMachine {
	sm := &ActivationStateMachine{
		users:  users,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

// Activate transitions the user to confirmed and active. The transition is
// idempotent-guarded: a second attempt reports AlreadyConfirmed and performs
// no write.
func (sm *ActivationStateMachine) Activate(ctx context.Context, userID uuid.UUID) (*ActivationResult, error) {
	user, err := sm.users.Activate(ctx, userID)
	if err == nil {
		sm.logger.Info("account activated", "user_id", userID.String())
		return &ActivationResult{Status: ActivationActivated, User: user}, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to activate user")
	}

	// No unconfirmed row matched: the user either does not exist or was
	// confirmed earlier.
	user, err = sm.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return &ActivationResult{Status: ActivationUserNotFound}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during activation")
	}

	return &ActivationResult{Status: ActivationAlreadyConfirmed, User: user}, nil
}
