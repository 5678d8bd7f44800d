package userservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/service/userservice"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) Save(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) GenerateToken(userID, userRole string) (string, error) {
	args := m.Called(userID, userRole)
	return args.String(0), args.Error(1)
}

func TestRegister_HashesPasswordAndAssignsUserRole(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	repo.On("Save", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.ID != "" &&
			u.Email == "jane@example.com" &&
			u.Role == domain.RoleUser &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")) == nil
	})).Return(domain.User{ID: "u-1", Email: "jane@example.com"}, nil)

	profile, err := svc.Register(context.Background(), "Jane", "Doe", "  Jane@Example.COM ", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, "u-1", profile.ID)
	repo.AssertExpectations(t)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	_, err := svc.Register(context.Background(), "Jane", "Doe", "jane@example.com", "short")

	require.Error(t, err)
	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegister_RejectsEmptyEmail(t *testing.T) {
	svc := userservice.NewService(new(mockUserRepo), new(mockTokenIssuer))

	_, err := svc.Register(context.Background(), "Jane", "Doe", "   ", "s3cret-pass")

	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestLogin_IssuesTokenOnValidCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(mockUserRepo)
	tokens := new(mockTokenIssuer)
	svc := userservice.NewService(repo, tokens)

	repo.On("FindByEmail", mock.Anything, "jane@example.com").Return(domain.User{
		ID:           "u-1",
		Email:        "jane@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	}, nil)
	tokens.On("GenerateToken", "u-1", "USER").Return("signed-token", nil)

	token, err := svc.Login(context.Background(), "Jane@Example.com", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
	tokens.AssertExpectations(t)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLogin_UniformUnauthorized(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	repo.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(domain.User{}, apperror.NewNotFoundError("user not found"))
	repo.On("FindByEmail", mock.Anything, "jane@example.com").Return(domain.User{
		ID:           "u-1",
		PasswordHash: string(hash),
	}, nil)

	_, errUnknown := svc.Login(context.Background(), "ghost@example.com", "whatever")
	_, errWrongPass := svc.Login(context.Background(), "jane@example.com", "wrong-pass")

	var ua *apperror.UnauthorizedError
	require.ErrorAs(t, errUnknown, &ua)
	require.ErrorAs(t, errWrongPass, &ua)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestGetProfile_SelfRead(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	repo.On("FindByID", mock.Anything, "u-1").Return(domain.User{
		ID:        "u-1",
		FirstName: "Jane",
		Email:     "jane@example.com",
	}, nil)

	profile, err := svc.GetProfile(context.Background(), "u-1", domain.UserAuth{ID: "u-1", Role: domain.RoleUser})

	require.NoError(t, err)
	assert.Equal(t, "Jane", profile.FirstName)
}

func TestGetProfile_NonAdminCannotReadOthers(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	_, err := svc.GetProfile(context.Background(), "u-2", domain.UserAuth{ID: "u-1", Role: domain.RoleUser})

	var fe *apperror.ForbiddenError
	assert.ErrorAs(t, err, &fe)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestGetProfile_AdminReadsAnyone(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	repo.On("FindByID", mock.Anything, "u-2").Return(domain.User{ID: "u-2"}, nil)

	profile, err := svc.GetProfile(context.Background(), "u-2", domain.UserAuth{ID: "admin-1", Role: domain.RoleAdmin})

	require.NoError(t, err)
	assert.Equal(t, "u-2", profile.ID)
}

func TestUpdateProfile_OwnerRenamesSelf(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	repo.On("FindByID", mock.Anything, "u-1").Return(domain.User{
		ID:        "u-1",
		FirstName: "Jane",
		LastName:  "Doe",
	}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.FirstName == "Janet" && u.LastName == "Doe" && !u.UpdatedAt.IsZero()
	})).Return(domain.User{ID: "u-1", FirstName: "Janet", LastName: "Doe"}, nil)

	name := "Janet"
	profile, err := svc.UpdateProfile(context.Background(), "u-1",
		domain.UserAuth{ID: "u-1", Role: domain.RoleUser}, userservice.ProfileChanges{FirstName: &name})

	require.NoError(t, err)
	assert.Equal(t, "Janet", profile.FirstName)
	repo.AssertExpectations(t)
}

func TestUpdateProfile_StrangerForbidden(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	name := "Janet"
	_, err := svc.UpdateProfile(context.Background(), "u-2",
		domain.UserAuth{ID: "u-1", Role: domain.RoleUser}, userservice.ProfileChanges{FirstName: &name})

	var fe *apperror.ForbiddenError
	assert.ErrorAs(t, err, &fe)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProfile_VerificationFlagIsAdminOnly(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	verified := true
	_, err := svc.UpdateProfile(context.Background(), "u-1",
		domain.UserAuth{ID: "u-1", Role: domain.RoleUser}, userservice.ProfileChanges{IsVerified: &verified})

	var fe *apperror.ForbiddenError
	assert.ErrorAs(t, err, &fe)
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateProfile_AdminVerifiesUser(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	repo.On("FindByID", mock.Anything, "u-2").Return(domain.User{ID: "u-2"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.IsVerified
	})).Return(domain.User{ID: "u-2", IsVerified: true}, nil)

	verified := true
	profile, err := svc.UpdateProfile(context.Background(), "u-2",
		domain.UserAuth{ID: "admin-1", Role: domain.RoleAdmin}, userservice.ProfileChanges{IsVerified: &verified})

	require.NoError(t, err)
	assert.Equal(t, "u-2", profile.ID)
	repo.AssertExpectations(t)
}

func TestUpdateProfile_RejectsEmptyName(t *testing.T) {
	repo := new(mockUserRepo)
	svc := userservice.NewService(repo, new(mockTokenIssuer))

	repo.On("FindByID", mock.Anything, "u-1").Return(domain.User{ID: "u-1", FirstName: "Jane"}, nil)

	empty := "   "
	_, err := svc.UpdateProfile(context.Background(), "u-1",
		domain.UserAuth{ID: "u-1", Role: domain.RoleUser}, userservice.ProfileChanges{FirstName: &empty})

	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
