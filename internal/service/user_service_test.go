package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rramosdev/shop-backoffice/internal/model"
	"github.com/rramosdev/shop-backoffice/internal/queue"
	"github.com/rramosdev/shop-backoffice/internal/token"
	"github.com/rramosdev/shop-backoffice/internal/utils"
)

func newUserFixture(t *testing.T) (*UserService, *authFixture) {
	t.Helper()
	f := newAuthFixture(t)
	return NewUserService(f.store, f.svc, f.svc.bcryptCost), f
}

func TestRegisterCreatesInactiveCustomer(t *testing.T) {
	svc, f := newUserFixture(t)

	u, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, model.RoleCustomer, u.Role)
	assert.False(t, u.Active)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "hunter22"))

	// Registration queues the activation email.
	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, queue.EmailActivateAccount, f.mail.sent[0].Kind)
	assert.Equal(t, "ada@example.com", f.mail.sent[0].To)
}

func TestRegisterSurvivesDispatchFailure(t *testing.T) {
	svc, f := newUserFixture(t)
	f.mail.err = assert.AnError

	_, err := svc.Register(context.Background(), "Ada", "ada@example.com", "hunter22")
	assert.NoError(t, err)
}

func TestRegistrationActivationRoundTrip(t *testing.T) {
	svc, f := newUserFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "Ada", "ada@example.com", "hunter22")
	require.NoError(t, err)

	raw, err := f.recovery.Mint(u.ID, token.PurposeActivateAccount)
	require.NoError(t, err)
	require.NoError(t, f.svc.ActivateAccount(ctx, raw))

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
}

func TestUpdateRoleRequiresAdmin(t *testing.T) {
	svc, f := newUserFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	ctx := context.Background()

	admin := model.RoleAdmin
	_, err := svc.Update(ctx, u.ID, UpdateInput{Role: &admin}, model.RoleCustomer)
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.Update(ctx, u.ID, UpdateInput{Role: &admin}, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)
}

func TestUpdateActiveRequiresAdmin(t *testing.T) {
	svc, f := newUserFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	off := false

	_, err := svc.Update(context.Background(), u.ID, UpdateInput{Active: &off}, model.RoleCustomer)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateRejectsUnknownRole(t *testing.T) {
	svc, f := newUserFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	bogus := model.Role("OWNER")

	_, err := svc.Update(context.Background(), u.ID, UpdateInput{Role: &bogus}, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCustomerPasswordChangeNeedsCurrentPassword(t *testing.T) {
	svc, f := newUserFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	ctx := context.Background()
	newPass := "brand-new-secret"

	_, err := svc.Update(ctx, u.ID, UpdateInput{Password: &newPass, CurrentPassword: "wrong"}, model.RoleCustomer)
	assert.ErrorIs(t, err, ErrWrongPassword)

	got, err := svc.Update(ctx, u.ID, UpdateInput{Password: &newPass, CurrentPassword: "hunter22"}, model.RoleCustomer)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(got.PasswordHash, newPass))
}

func TestAdminResetsPasswordWithoutCurrent(t *testing.T) {
	svc, f := newUserFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	newPass := "admin-set-secret"

	got, err := svc.Update(context.Background(), u.ID, UpdateInput{Password: &newPass}, model.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(got.PasswordHash, newPass))
}

func TestUpdateNameAndEmail(t *testing.T) {
	svc, f := newUserFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	name, email := "Ada L.", "ada.l@example.com"

	got, err := svc.Update(context.Background(), u.ID, UpdateInput{Name: &name, Email: &email}, model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, email, got.Email)
}

func TestDeleteUser(t *testing.T) {
	svc, f := newUserFixture(t)
	u := f.seedUser(t, "ada@example.com", "hunter22", true)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, u.ID))
	_, err := svc.Get(ctx, u.ID)
	assert.Error(t, err)
}
