package repository

import (
	"testing"

	"github.com/shop-ex/shopex-backend/internal/app/model"
	"github.com/shop-ex/shopex-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) UserRepository {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewUserRepository(testDB)
}

func TestUserRepository_CreateAndFindByEmail(t *testing.T) {
	repo := setupUserTest(t)

	user := &model.User{Email: "alice@example.com", Name: "Alice", Role: model.RoleCustomer}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)

	found, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)

	_, err = repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo := setupUserTest(t)

	require.NoError(t, repo.Create(&model.User{Email: "dup@example.com", Name: "First", Role: model.RoleCustomer}))
	err := repo.Create(&model.User{Email: "dup@example.com", Name: "Second", Role: model.RoleCustomer})
	assert.Error(t, err)
}

func TestUserRepository_SetSellerRequest(t *testing.T) {
	repo := setupUserTest(t)
	require.NoError(t, repo.Create(&model.User{Email: "a@example.com", Name: "A", Role: model.RoleCustomer}))

	matched, err := repo.SetSellerRequest("a@example.com", model.SellerRequestPending, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	reason := "incomplete documents"
	matched, err = repo.SetSellerRequest("a@example.com", model.SellerRequestDenied, &reason)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	user, err := repo.FindByEmail("a@example.com")
	require.NoError(t, err)
	require.NotNil(t, user.DenyReason)
	assert.Equal(t, reason, *user.DenyReason)

	// Re-applying overwrites both the status and the stale deny reason.
	matched, err = repo.SetSellerRequest("a@example.com", model.SellerRequestPending, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	user, err = repo.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.Nil(t, user.DenyReason)
	require.NotNil(t, user.SellerRequest)
	assert.Equal(t, model.SellerRequestPending, *user.SellerRequest)

	matched, err = repo.SetSellerRequest("missing@example.com", model.SellerRequestPending, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)
}

func TestUserRepository_ApproveSeller(t *testing.T) {
	repo := setupUserTest(t)
	require.NoError(t, repo.Create(&model.User{Email: "a@example.com", Name: "A", Role: model.RoleCustomer}))

	// Without a pending request the conditional update matches nothing.
	matched, err := repo.ApproveSeller("a@example.com", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)

	_, err = repo.SetSellerRequest("a@example.com", model.SellerRequestPending, nil)
	require.NoError(t, err)

	matched, err = repo.ApproveSeller("a@example.com", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	user, err := repo.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, user.Role)
	assert.True(t, user.SellerEligible())
	require.NotNil(t, user.ApprovedBy)
	assert.Equal(t, "admin@example.com", *user.ApprovedBy)

	// The request is no longer pending, so a repeat approval is a no-op.
	matched, err = repo.ApproveSeller("a@example.com", "admin2@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)
}

func TestUserRepository_PromoteToStaff(t *testing.T) {
	repo := setupUserTest(t)
	require.NoError(t, repo.Create(&model.User{Email: "c@example.com", Name: "C", Role: model.RoleCustomer}))
	require.NoError(t, repo.Create(&model.User{Email: "s@example.com", Name: "S", Role: model.RoleSeller}))

	matched, err := repo.PromoteToStaff("c@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	// The role precondition keeps non-customers out.
	matched, err = repo.PromoteToStaff("s@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)

	user, err := repo.FindByEmail("s@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, user.Role)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	repo := setupUserTest(t)
	require.NoError(t, repo.Create(&model.User{Email: "p@example.com", Name: "Before", Role: model.RoleCustomer}))

	image := "https://cdn.example.com/p.png"
	matched, err := repo.UpdateProfile("p@example.com", "After", &image)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matched)

	user, err := repo.FindByEmail("p@example.com")
	require.NoError(t, err)
	assert.Equal(t, "After", user.Name)
	require.NotNil(t, user.ProfileImage)
	assert.Equal(t, image, *user.ProfileImage)

	// Nothing to update is a zero-row no-op, not an error.
	matched, err = repo.UpdateProfile("p@example.com", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), matched)
}

func TestUserRepository_DeleteByEmail(t *testing.T) {
	repo := setupUserTest(t)
	require.NoError(t, repo.Create(&model.User{Email: "d@example.com", Name: "D", Role: model.RoleCustomer}))

	deleted, err := repo.DeleteByEmail("d@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByEmail("d@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	deleted, err = repo.DeleteByEmail("d@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
