package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type AccountActivationMessage struct {
	Token      string `json:"token" doc:"Signed activation token from the verification link"`
	OnResponse func(a *AccountActivationResponse)
}

func (e AccountActivationMessage) Type() string { return "accounts.user.activate" }

type AccountActivationResponse struct {
	Status   ActivationStatus `json:"status" example:"activated" doc:"Outcome of the activation attempt."`
	Redirect string           `json:"redirect" example:"/user" doc:"Where the client should go next."`
	Found    bool             `json:"found" example:"true" doc:"Did the token resolve to an account?"`
	Errors   []string         `json:"errors" example:"['invalid token']" doc:"Error messages."`
}

// AccountActivationHandler resolves an activation token outside the HTTP
// flow. The response mirrors the controller's redirect decisions so callers
// can reuse them.
type AccountActivationHandler struct {
	verifier *EmailVerifier
}

func NewAccountActivationHandler(verifier *EmailVerifier) *AccountActivationHandler {
	return &AccountActivationHandler{verifier: verifier}
}

func (h *AccountActivationHandler) Execute(ctx context.Context, event AccountActivationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during account activation")
	default:
		return h.execute(ctx, event)
	}
}

func (h *AccountActivationHandler) execute(ctx context.Context, event AccountActivationMessage) error {
	resp := &AccountActivationResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	result, err := h.verifier.ResolveActivation(ctx, event.Token)
	if err != nil {
		// a bad token is part of the expected flow, not an application error
		if !IsTokenInvalid(err) {
			return err
		}
		resp.Redirect = "/sign-up"
		resp.Errors = append(resp.Errors, "invalid token")
		event.OnResponse(resp)
		return nil
	}

	resp.Status = result.Status

	switch result.Status {
	case ActivationUserNotFound:
		resp.Redirect = "/sign-up"
	case ActivationAlreadyConfirmed:
		resp.Found = true
		resp.Redirect = "/sign-in"
	case ActivationActivated:
		resp.Found = true
		resp.Redirect = "/user"
	}

	event.OnResponse(resp)

	return nil
}
