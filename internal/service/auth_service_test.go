package service

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rramosdev/shop-backoffice/internal/config"
	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/queue"
	"github.com/rramosdev/shop-backoffice/internal/repository"
	"github.com/rramosdev/shop-backoffice/internal/token"
	"github.com/rramosdev/shop-backoffice/internal/utils"
)

// fakeUserStore is an in-memory stand-in for the MySQL repository. It keeps
// the same contract, including ErrStaleToken on a lost rotation race and
// session clearing on password updates.
type fakeUserStore struct {
	byID map[string]*model.User
	seq  int

	rotateErr error
	clearErr  error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[string]*model.User{}}
}

func (f *fakeUserStore) add(u *model.User) *model.User {
	if u.ID == "" {
		f.seq++
		u.ID = "u-" + strconv.Itoa(f.seq)
	}
	f.byID[u.ID] = u
	return u
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	f.add(u)
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	u.RefreshToken = nil
	return nil
}

func (f *fakeUserStore) SetRefreshToken(_ context.Context, id, tokenHash string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = &tokenHash
	return nil
}

func (f *fakeUserStore) RotateRefreshToken(_ context.Context, id, oldHash, newHash string) error {
	if f.rotateErr != nil {
		return f.rotateErr
	}
	u, ok := f.byID[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != oldHash {
		return repository.ErrStaleToken
	}
	u.RefreshToken = &newHash
	return nil
}

func (f *fakeUserStore) ClearRefreshToken(_ context.Context, id string) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshToken = nil
	return nil
}

func (f *fakeUserStore) Activate(_ context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Active = true
	return nil
}

func (f *fakeUserStore) List(_ context.Context, p repository.Pagination, _ string) ([]model.User, error) {
	var out []model.User
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Update(_ context.Context, u *model.User) error {
	if _, ok := f.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type sentEmail struct {
	To   string
	Kind queue.EmailKind
	Link string
}

type fakeDispatcher struct {
	sent []sentEmail
	err  error
}

func (f *fakeDispatcher) Send(_ context.Context, to string, kind queue.EmailKind, link string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{To: to, Kind: kind, Link: link})
	return nil
}

type authFixture struct {
	svc      *AuthService
	store    *fakeUserStore
	mail     *fakeDispatcher
	issuer   *token.Issuer
	recovery *token.RecoveryCodec
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	store := newFakeUserStore()
	mail := &fakeDispatcher{}
	issuer := token.NewIssuer("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	recovery := token.NewRecoveryCodec("recovery-secret", 15*time.Minute)
	cfg := config.Config{
		BcryptCost:         bcrypt.MinCost,
		ResetPasswordURL:   "https://shop.example.com/reset-password",
		ActivateAccountURL: "https://shop.example.com/activate",
	}
	return &authFixture{
		svc:      NewAuthService(store, issuer, recovery, mail, cfg),
		store:    store,
		mail:     mail,
		issuer:   issuer,
		recovery: recovery,
	}
}

func (f *authFixture) seedUser(t *testing.T, email, password string, active bool) *model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return f.store.add(&model.User{
		Name:         "Test User",
		Email:        email,
		Role:         model.RoleCustomer,
		Active:       active,
		PasswordHash: hash,
	})
}

func TestLoginSuccessPersistsRefreshHash(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)

	pair, err := f.svc.Login(context.Background(), "ada@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// Only the digest of the issued refresh token is stored.
	stored := f.store.byID[u.ID].RefreshToken
	require.NotNil(t, stored)
	assert.Equal(t, token.Hash(pair.RefreshToken), *stored)
	assert.NotEqual(t, pair.RefreshToken, *stored)

	claims, err := f.issuer.Verify(pair.AccessToken, token.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser(t, "ada@example.com", "hunter22", true)

	_, err := f.svc.Login(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestRefreshRotatesAndInvalidatesOldToken(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	ctx := context.Background()

	first, err := f.svc.Login(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)

	second, err := f.svc.RefreshTokens(ctx, u.ID, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The superseded token must be permanently unusable.
	_, err = f.svc.RefreshTokens(ctx, u.ID, first.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenMismatch)

	// The current one keeps working.
	_, err = f.svc.RefreshTokens(ctx, u.ID, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshUnknownAccount(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.RefreshTokens(context.Background(), "nope", "token")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRefreshWithoutSession(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)

	_, err := f.svc.RefreshTokens(context.Background(), u.ID, "anything")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRefreshConcurrentRotationLoses(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)

	// Simulate another request rotating between our read and write.
	f.store.rotateErr = repository.ErrStaleToken
	_, err = f.svc.RefreshTokens(ctx, u.ID, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenMismatch)
}

func TestRefreshRejectsForeignSignature(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	ctx := context.Background()

	// A token signed by someone else, even if its digest were planted in the
	// store, must fail signature verification.
	forged, err := token.NewIssuer("x", "forged-secret", time.Hour, time.Hour).IssueRefresh(u)
	require.NoError(t, err)
	require.NoError(t, f.store.SetRefreshToken(ctx, u.ID, token.Hash(forged)))

	_, err = f.svc.RefreshTokens(ctx, u.ID, forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogOutEndsSession(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	ctx := context.Background()

	pair, err := f.svc.Login(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)

	require.NoError(t, f.svc.LogOut(ctx, u.ID))
	assert.Nil(t, f.store.byID[u.ID].RefreshToken)

	_, err = f.svc.RefreshTokens(ctx, u.ID, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLogOutUnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	err := f.svc.LogOut(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLogOutPersistFailure(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	f.store.clearErr = assert.AnError

	err := f.svc.LogOut(context.Background(), u.ID)
	assert.ErrorIs(t, err, ErrLogoutFailed)
}

func TestForgotPasswordDispatchesResetLink(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)

	f.svc.ForgotPassword(context.Background(), "ada@example.com")

	require.Len(t, f.mail.sent, 1)
	sent := f.mail.sent[0]
	assert.Equal(t, "ada@example.com", sent.To)
	assert.Equal(t, queue.EmailResetPassword, sent.Kind)

	parsed, err := url.Parse(sent.Link)
	require.NoError(t, err)
	id, purpose, err := f.recovery.Decode(parsed.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, token.PurposeResetPassword, purpose)
}

func TestForgotPasswordUnknownEmailStaysSilent(t *testing.T) {
	f := newAuthFixture(t)

	f.svc.ForgotPassword(context.Background(), "ghost@example.com")

	assert.Empty(t, f.mail.sent)
}

func TestActivateAccount(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", false)
	ctx := context.Background()

	raw, err := f.recovery.Mint(u.ID, token.PurposeActivateAccount)
	require.NoError(t, err)

	require.NoError(t, f.svc.ActivateAccount(ctx, raw))
	assert.True(t, f.store.byID[u.ID].Active)

	// Reusing the link on an already active account is a no-op.
	assert.NoError(t, f.svc.ActivateAccount(ctx, raw))
}

func TestActivateAccountRejectsResetToken(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", false)

	raw, err := f.recovery.Mint(u.ID, token.PurposeResetPassword)
	require.NoError(t, err)

	err = f.svc.ActivateAccount(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, f.store.byID[u.ID].Active)
}

func TestActivateAccountUnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	raw, err := f.recovery.Mint("gone", token.PurposeActivateAccount)
	require.NoError(t, err)

	err = f.svc.ActivateAccount(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResetPasswordReplacesHashAndEndsSession(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)

	raw, err := f.recovery.Mint(u.ID, token.PurposeResetPassword)
	require.NoError(t, err)
	require.NoError(t, f.svc.ResetPassword(ctx, "new-secret-42", raw))

	assert.Nil(t, f.store.byID[u.ID].RefreshToken)

	_, err = f.svc.Login(ctx, "ada@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrWrongPassword)
	_, err = f.svc.Login(ctx, "ada@example.com", "new-secret-42")
	assert.NoError(t, err)
}

func TestResetPasswordRejectsActivationToken(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)

	raw, err := f.recovery.Mint(u.ID, token.PurposeActivateAccount)
	require.NoError(t, err)

	err = f.svc.ResetPassword(context.Background(), "new-secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestOAuthLoginCreatesActiveCustomerOnFirstSignIn(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	pair, err := f.svc.OAuthLogin(ctx, Profile{
		ExternalID: "google-1",
		GivenName:  "Ada",
		FamilyName: "Lovelace",
		Email:      "ada@example.com",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pair.RefreshToken)

	u, err := f.store.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, u.Role)
	assert.True(t, u.Active)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestOAuthLoginReusesExistingAccount(t *testing.T) {
	f := newAuthFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)

	_, err := f.svc.OAuthLogin(context.Background(), Profile{Email: "ada@example.com"})
	require.NoError(t, err)
	assert.Len(t, f.store.byID, 1)
	assert.NotNil(t, f.store.byID[u.ID].RefreshToken)
}
