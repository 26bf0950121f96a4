package accounts

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// VerificationSubject is the subject line of the activation email.
var VerificationSubject = "Activate your account!"

// ViewRenderer renders a named template into w. It matches fiber.Views so a
// configured template engine can be reused for email bodies.
type ViewRenderer interface {
	Render(w io.Writer, name string, bind any, layouts ...string) error
}

// EmailVerifier issues signed activation tokens, dispatches them in an
// activation email, and resolves the return trip into an activation outcome.
type EmailVerifier struct {
	codec    *TokenCodec
	sender   Sender
	machine  *ActivationStateMachine
	siteURL  string
	tokenTTL time.Duration
	views    ViewRenderer
	viewName string
	logger   Logger
}

type EmailVerifierOption func(*EmailVerifier)

// WithVerifierLogger overrides the verifier logger.
func WithVerifierLogger(logger Logger) EmailVerifierOption {
	return func(v *EmailVerifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithVerifierTokenTTL overrides the activation token lifetime.
func WithVerifierTokenTTL(ttl time.Duration) EmailVerifierOption {
	return func(v *EmailVerifier) {
		if ttl > 0 {
			v.tokenTTL = ttl
		}
	}
}

// WithVerifierViews renders the activation email body through the given
// template engine instead of the built-in template.
func WithVerifierViews(views ViewRenderer, name string) EmailVerifierOption {
	return func(v *EmailVerifier) {
		if views != nil {
			v.views = views
			v.viewName = name
		}
	}
}

func NewEmailVerifier(codec *TokenCodec, sender Sender, machine *ActivationStateMachine, siteURL string, opts ...EmailVerifierOption) *EmailVerifier {
	v := &EmailVerifier{
		codec:    codec,
		sender:   sender,
		machine:  machine,
		siteURL:  strings.TrimRight(siteURL, "/"),
		tokenTTL: DefaultTokenTTL,
		views:    defaultEmailViews{},
		viewName: "activate-your-account",
		logger:   defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}

	return v
}

// IssueAndSend generates an activation token for the user and dispatches the
// activation email. Transport failures are not swallowed: an unsent
// verification email leaves the account unable to self-activate, so the
// error propagates to the caller.
func (v *EmailVerifier) IssueAndSend(ctx context.Context, user *User) error {
	token, err := v.codec.Encode(map[string]any{
		"user_id": user.ID.String(),
	}, v.tokenTTL)
	if err != nil {
		return err
	}

	link := v.siteURL + "/activate-account?token=" + url.QueryEscape(token)

	var buf bytes.Buffer
	if err := v.views.Render(&buf, v.viewName, map[string]any{
		"username": user.Username,
		"link":     link,
	}); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render verification email")
	}

	htmlBody := buf.String()
	textBody := StripTags(htmlBody)

	if err := v.sender.Send(ctx, user.Email, VerificationSubject, htmlBody, textBody); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to dispatch verification email")
	}

	v.logger.Info("verification email dispatched", "user_id", user.ID.String())

	return nil
}

// ResolveActivation decodes a returned token and drives the activation state
// machine. Any token failure surfaces as ErrTokenInvalid; use
// IsTokenInvalid to route the user back to sign-up.
func (v *EmailVerifier) ResolveActivation(ctx context.Context, raw string) (*ActivationResult, error) {
	claims, err := v.codec.Decode(raw)
	if err != nil {
		return nil, err
	}

	uid, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(uid)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return v.machine.Activate(ctx, userID)
}

// IsTokenInvalid reports whether err is the coarse token failure produced by
// the codec.
func IsTokenInvalid(err error) bool {
	if err == nil {
		return false
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == ErrTokenInvalid.TextCode
	}

	return false
}

var defaultEmailTemplate = template.Must(template.New("activate-your-account").Parse(`<html>
<body>
<p>Hi {{.username}},</p>
<p>Thanks for signing up. Please confirm your email address to activate your account:</p>
<p><a href="{{.link}}">Activate your account</a></p>
<p>If the link does not work, copy this address into your browser: {{.link}}</p>
</body>
</html>`))

type defaultEmailViews struct{}

func (defaultEmailViews) Render(w io.Writer, name string, bind any, layouts ...string) error {
	return defaultEmailTemplate.Execute(w, bind)
}

// StripTags derives a plain text body from an HTML one by dropping markup
// and collapsing the leftover whitespace.
func StripTags(html string) string {
	var b strings.Builder
	inTag := false

	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(strings.Join(strings.Fields(b.String()), " "))
}
