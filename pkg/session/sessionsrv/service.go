package sessionsrv

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/Abraxas-365/gatekeeper/pkg/account"
	"github.com/Abraxas-365/gatekeeper/pkg/errx"
	"github.com/Abraxas-365/gatekeeper/pkg/logx"
	"github.com/Abraxas-365/gatekeeper/pkg/notifx"
	"github.com/Abraxas-365/gatekeeper/pkg/session"
	"github.com/Abraxas-365/gatekeeper/pkg/twofa"
)

// TwoFATemplateName is the notifx template rendered into the 2FA email body.
const TwoFATemplateName = "two_fa_code"

// TwoFATemplate is the default HTML body for the 2FA email.
const TwoFATemplate = `<p>Your 2FA code is: <strong>{{.Code}}</strong></p>`

// Service is the login/verify/logout orchestrator. It holds no mutable state
// of its own; all state lives in the stores, which are safe for concurrent use.
type Service struct {
	users    account.UserStore
	codes    twofa.CodeStore
	tokens   session.TokenService
	banned   session.BannedTokenStore
	notifier *notifx.Client
}

// NewService wires the orchestrator over its collaborators.
func NewService(
	users account.UserStore,
	codes twofa.CodeStore,
	tokens session.TokenService,
	banned session.BannedTokenStore,
	notifier *notifx.Client,
) *Service {
	return &Service{
		users:    users,
		codes:    codes,
		tokens:   tokens,
		banned:   banned,
		notifier: notifier,
	}
}

// LoginResult is the outcome of a successful Login call: either an
// established session token, or a pending two-factor challenge identified by
// an attempt ID. The code itself is never returned to the caller.
type LoginResult struct {
	Token          string
	TwoFARequired  bool
	LoginAttemptID string
}

// Signup registers a new principal. The password is hashed by the user store
// before persisting.
func (s *Service) Signup(ctx context.Context, rawEmail, rawPassword string, requires2FA bool) error {
	email, err := account.ParseEmail(rawEmail)
	if err != nil {
		return session.ErrInvalidCredentials()
	}
	password, err := account.ParsePassword(rawPassword)
	if err != nil {
		// Password policy reasons are worth surfacing; the raw value never is.
		return err
	}

	if err := s.users.AddUser(ctx, email, password, requires2FA); err != nil {
		if errx.IsCode(err, account.CodeUserAlreadyExists) {
			return err
		}
		return errx.Wrap(err, "signup failed", errx.TypeInternal)
	}

	logx.WithField("requires_2fa", requires2FA).Info("user registered")
	return nil
}

// Login verifies the credential pair and either issues a session token or
// opens a two-factor challenge, depending on the principal's settings.
func (s *Service) Login(ctx context.Context, rawEmail, rawPassword string) (*LoginResult, error) {
	email, err := account.ParseEmail(rawEmail)
	if err != nil {
		return nil, session.ErrInvalidCredentials()
	}
	password, err := account.ParsePassword(rawPassword)
	if err != nil {
		return nil, session.ErrInvalidCredentials()
	}

	if err := s.users.ValidateUser(ctx, email, password); err != nil {
		// "unknown user" and "wrong password" collapse to one rejection here
		// so login responses cannot be used to probe for registered emails.
		if errx.IsCode(err, account.CodeUserNotFound) || errx.IsCode(err, account.CodeInvalidCredentials) {
			return nil, session.ErrIncorrectCredentials()
		}
		return nil, errx.Wrap(err, "credential validation failed", errx.TypeInternal)
	}

	user, err := s.users.GetUser(ctx, email)
	if err != nil {
		return nil, errx.Wrap(err, "user lookup failed", errx.TypeInternal)
	}

	if !user.Requires2FA {
		token, err := s.tokens.Issue(email)
		if err != nil {
			return nil, err
		}
		return &LoginResult{Token: token}, nil
	}

	return s.openTwoFAChallenge(ctx, email)
}

// openTwoFAChallenge stores a fresh (attempt ID, code) pair, replacing any
// pending challenge for the principal, and delivers the code out of band.
func (s *Service) openTwoFAChallenge(ctx context.Context, email account.Email) (*LoginResult, error) {
	attemptID := twofa.NewLoginAttemptID()
	code, err := twofa.NewCode()
	if err != nil {
		return nil, errx.Wrap(err, "two-factor code generation failed", errx.TypeInternal)
	}

	if err := s.codes.AddCode(ctx, email, attemptID, code); err != nil {
		return nil, errx.Wrap(err, "storing two-factor challenge failed", errx.TypeInternal)
	}

	msg := notifx.EmailMessage{
		To:       []string{email.String()},
		Subject:  "Your 2FA code",
		TextBody: "Your 2FA code is: " + code.String(),
	}
	if err := s.notifier.SendTemplatedEmail(ctx, TwoFATemplateName, struct{ Code string }{code.String()}, msg); err != nil {
		// No silent partial success: an undeliverable code aborts the login.
		return nil, errx.Wrap(err, "two-factor code delivery failed", errx.TypeExternal)
	}

	logx.WithField("login_attempt_id", attemptID.String()).Info("two-factor challenge opened")

	return &LoginResult{
		TwoFARequired:  true,
		LoginAttemptID: attemptID.String(),
	}, nil
}

// Verify2FA consumes a pending challenge and issues a session token. The
// stored pair is compared against both the attempt ID and the code; a
// mismatch in either field is a plain rejection.
func (s *Service) Verify2FA(ctx context.Context, rawEmail, rawAttemptID, rawCode string) (string, error) {
	email, err := account.ParseEmail(rawEmail)
	if err != nil {
		return "", session.ErrInvalidCredentials()
	}
	attemptID, err := twofa.ParseLoginAttemptID(rawAttemptID)
	if err != nil {
		return "", session.ErrInvalidCredentials()
	}
	code, err := twofa.ParseCode(rawCode)
	if err != nil {
		return "", session.ErrInvalidCredentials()
	}

	storedAttemptID, storedCode, err := s.codes.GetCode(ctx, email)
	if err != nil {
		if errx.IsCode(err, twofa.CodeNotFound) {
			return "", session.ErrIncorrectCredentials()
		}
		return "", errx.Wrap(err, "two-factor lookup failed", errx.TypeInternal)
	}

	// Constant-time on both fields; the code is a 6-digit secret.
	idMatch := subtle.ConstantTimeCompare([]byte(storedAttemptID.String()), []byte(attemptID.String()))
	codeMatch := subtle.ConstantTimeCompare([]byte(storedCode.String()), []byte(code.String()))
	if idMatch&codeMatch != 1 {
		return "", session.ErrIncorrectCredentials()
	}

	// One-time use: remove before issuing. If removal fails the code might
	// still be replayable, so fail closed and issue nothing.
	if err := s.codes.RemoveCode(ctx, email); err != nil {
		return "", errx.Wrap(err, "consuming two-factor challenge failed", errx.TypeInternal)
	}

	return s.tokens.Issue(email)
}

// Logout revokes the session token. The caller discards its copy; the ban
// outlives the token's own expiry.
func (s *Service) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return session.ErrMissingToken()
	}

	if _, err := s.tokens.Validate(ctx, token); err != nil {
		return session.ErrInvalidToken()
	}

	if err := s.banned.BanToken(ctx, token); err != nil {
		return errx.Wrap(err, "token revocation failed", errx.TypeInternal)
	}

	logx.Info("session revoked")
	return nil
}

// VerifyToken authorizes a request on behalf of a resource server. Failures
// are coarsened to one uniform rejection; callers are not told why.
func (s *Service) VerifyToken(ctx context.Context, token string) (*session.Claims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, session.ErrMissingToken()
	}

	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, session.ErrInvalidToken()
	}
	return claims, nil
}
