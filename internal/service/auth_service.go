// Package service holds the business logic between handlers and
// repositories. AuthService owns the whole session lifecycle: credential
// verification, token issuance and rotation, logout, and the email-based
// recovery flows.
package service

import (
	"context"
	"errors"
	"net/url"

	"github.com/rramosdev/shop-backoffice/internal/config"
	"github.com/rramosdev/shop-backoffice/internal/logger"
	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/queue"
	"github.com/rramosdev/shop-backoffice/internal/repository"
	"github.com/rramosdev/shop-backoffice/internal/token"
	"github.com/rramosdev/shop-backoffice/internal/utils"
)

// Expected business outcomes. Handlers map each to a specific status code,
// so the distinctions here are part of the API contract.
var (
	// ErrWrongPassword: the account exists but the secret does not match.
	ErrWrongPassword = errors.New("wrong password")
	// ErrNoSession: the account has no stored refresh-token hash.
	ErrNoSession = errors.New("no active session")
	// ErrTokenMismatch: a refresh token was presented but it is not the
	// account's current one (superseded by rotation or fabricated).
	ErrTokenMismatch = errors.New("refresh token mismatch")
	// ErrInvalidToken: bad signature, expiry or purpose on a presented token.
	ErrInvalidToken = token.ErrInvalidToken
	// ErrLogoutFailed: clearing the session did not persist.
	ErrLogoutFailed = errors.New("could not log out")
)

// UserStore is the session store adapter consumed by AuthService. It is the
// only path through which auth mutates account state, and it touches nothing
// beyond refresh_token, password and active.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetRefreshToken(ctx context.Context, id, tokenHash string) error
	RotateRefreshToken(ctx context.Context, id, oldHash, newHash string) error
	ClearRefreshToken(ctx context.Context, id string) error
	Activate(ctx context.Context, id string) error
}

// Dispatcher delivers recovery emails. Implementations are fire-and-forget;
// AuthService never fails a request over a dispatch error.
type Dispatcher interface {
	Send(ctx context.Context, to string, kind queue.EmailKind, link string) error
}

// Profile is what an external identity provider hands back after a
// successful third-party authentication.
type Profile struct {
	ExternalID string
	GivenName  string
	FamilyName string
	Email      string
}

// TokenPair is the result of a successful authentication.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService orchestrates login, refresh rotation, logout and the
// password-reset / account-activation flows.
type AuthService struct {
	users    UserStore
	issuer   *token.Issuer
	recovery *token.RecoveryCodec
	mail     Dispatcher

	bcryptCost  int
	resetURL    string
	activateURL string
}

func NewAuthService(users UserStore, issuer *token.Issuer, recovery *token.RecoveryCodec, mail Dispatcher, cfg config.Config) *AuthService {
	return &AuthService{
		users:       users,
		issuer:      issuer,
		recovery:    recovery,
		mail:        mail,
		bcryptCost:  cfg.BcryptCost,
		resetURL:    cfg.ResetPasswordURL,
		activateURL: cfg.ActivateAccountURL,
	}
}

// Login verifies the credentials and starts a session. The two failure
// modes stay distinguishable: repository.ErrNotFound when no account owns
// the email, ErrWrongPassword when the secret does not match.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrWrongPassword
	}
	return s.startSession(ctx, u)
}

// startSession issues a token pair and persists the refresh hash. The pair
// is only returned once persistence succeeded.
func (s *AuthService) startSession(ctx context.Context, u *model.User) (*TokenPair, error) {
	access, err := s.issuer.IssueAccess(u)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefresh(u)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, token.Hash(refresh)); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshTokens rotates the session. Callers can tell apart three failures:
// repository.ErrNotFound (no such account), ErrNoSession (no stored hash)
// and ErrTokenMismatch (stored hash differs from the presented token).
// The old refresh token is permanently unusable once rotation persists.
func (s *AuthService) RefreshTokens(ctx context.Context, userID, presented string) (*TokenPair, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.RefreshToken == nil {
		return nil, ErrNoSession
	}
	oldHash := *u.RefreshToken
	if !token.HashMatches(presented, oldHash) {
		return nil, ErrTokenMismatch
	}
	if _, err := s.issuer.Verify(presented, token.KindRefresh); err != nil {
		return nil, ErrInvalidToken
	}

	access, err := s.issuer.IssueAccess(u)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issuer.IssueRefresh(u)
	if err != nil {
		return nil, err
	}
	if err := s.users.RotateRefreshToken(ctx, u.ID, oldHash, token.Hash(refresh)); err != nil {
		if errors.Is(err, repository.ErrStaleToken) {
			// A concurrent refresh won between our read and write.
			return nil, ErrTokenMismatch
		}
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// LogOut clears the stored refresh-token hash, ending the session.
func (s *AuthService) LogOut(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.ClearRefreshToken(ctx, userID); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("logout: clearing session failed")
		return ErrLogoutFailed
	}
	return nil
}

// ForgotPassword mints a reset token and dispatches the emailed link. It is
// intentionally silent about every outcome: an unknown email sends nothing,
// and a dispatch failure is logged but never surfaced, so responses cannot
// be used to enumerate accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Log.WithError(err).Error("forgot password: lookup failed")
		}
		return
	}
	tok, err := s.recovery.Mint(u.ID, token.PurposeResetPassword)
	if err != nil {
		logger.Log.WithError(err).Error("forgot password: mint failed")
		return
	}
	link := s.resetURL + "?token=" + url.QueryEscape(tok)
	if err := s.mail.Send(ctx, u.Email, queue.EmailResetPassword, link); err != nil {
		logger.Log.WithError(err).WithField("user_id", u.ID).Error("forgot password: dispatch failed")
	}
}

// SendActivationEmail mints an activation token for a freshly registered
// account and dispatches the link. Best effort, same policy as
// ForgotPassword.
func (s *AuthService) SendActivationEmail(ctx context.Context, u *model.User) {
	tok, err := s.recovery.Mint(u.ID, token.PurposeActivateAccount)
	if err != nil {
		logger.Log.WithError(err).Error("activation: mint failed")
		return
	}
	link := s.activateURL + "?token=" + url.QueryEscape(tok)
	if err := s.mail.Send(ctx, u.Email, queue.EmailActivateAccount, link); err != nil {
		logger.Log.WithError(err).WithField("user_id", u.ID).Error("activation: dispatch failed")
	}
}

// ActivateAccount consumes an activation token. Activating an already
// active account succeeds without effect; everything else about the token
// must check out, including its purpose.
func (s *AuthService) ActivateAccount(ctx context.Context, raw string) error {
	id, purpose, err := s.recovery.Decode(raw)
	if err != nil || purpose != token.PurposeActivateAccount {
		return ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if u.Active {
		return nil
	}
	return s.users.Activate(ctx, u.ID)
}

// ResetPassword consumes a reset token, replaces the password hash and
// drops any active session so the user must log in again.
func (s *AuthService) ResetPassword(ctx context.Context, newPassword, raw string) error {
	id, purpose, err := s.recovery.Decode(raw)
	if err != nil || purpose != token.PurposeResetPassword {
		return ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, u.ID, hash)
}

// OAuthLogin maps a third-party profile onto a local account, creating an
// active customer account on first sign-in, then starts a session exactly
// like password login.
func (s *AuthService) OAuthLogin(ctx context.Context, p Profile) (*TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, p.Email)
	if errors.Is(err, repository.ErrNotFound) {
		u, err = s.createOAuthUser(ctx, p)
	}
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, u)
}

func (s *AuthService) createOAuthUser(ctx context.Context, p Profile) (*model.User, error) {
	secret, err := utils.RandomPassword()
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(secret, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Name:         p.GivenName + " " + p.FamilyName,
		Email:        p.Email,
		Role:         model.RoleCustomer,
		Active:       true, // the provider already verified the address
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
