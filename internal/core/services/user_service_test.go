package services_test

import (
	"context"
	"testing"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	portssvc "github.com/buildledger/site_ledger_app/internal/core/ports/services"
	"github.com/buildledger/site_ledger_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) TestEnsureUser_ReturnsExisting() {
	ctx := context.Background()
	existing := &domain.User{UserID: uuid.NewString(), ExternalID: "wa:+15550001", Name: "Alex"}

	suite.mockUserRepo.On("FindUserByExternalID", ctx, "wa:+15550001").Return(existing, nil).Once()

	user, err := suite.service.EnsureUser(ctx, "wa:+15550001", "Alex (new name)")

	suite.Require().NoError(err)
	suite.Equal(existing, user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestEnsureUser_CreatesOnFirstContact() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByExternalID", ctx, "wa:+15550002").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.ExternalID == "wa:+15550002" && u.Name == "Sam" && u.UserID != "" && u.CreatedBy == "system"
	})).Return(nil).Once()

	user, err := suite.service.EnsureUser(ctx, "wa:+15550002", "Sam")

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("Sam", user.Name)
	suite.NotEmpty(user.UserID)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestEnsureUser_ConcurrentFirstContactRace() {
	ctx := context.Background()
	winner := &domain.User{UserID: uuid.NewString(), ExternalID: "wa:+15550003", Name: "Sam"}

	suite.mockUserRepo.On("FindUserByExternalID", ctx, "wa:+15550003").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything).Return(apperrors.ErrConflict).Once()
	suite.mockUserRepo.On("FindUserByExternalID", ctx, "wa:+15550003").Return(winner, nil).Once()

	user, err := suite.service.EnsureUser(ctx, "wa:+15550003", "Sam")

	suite.Require().NoError(err)
	suite.Equal(winner, user)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestEnsureUser_EmptyExternalID() {
	ctx := context.Background()

	user, err := suite.service.EnsureUser(ctx, "", "Sam")

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *UserServiceTestSuite) TestListUsers_EmptyNotNil() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUsers", ctx, 10, 0).Return([]domain.User(nil), nil).Once()

	users, err := suite.service.ListUsers(ctx, 10, 0)

	suite.Require().NoError(err)
	suite.NotNil(users)
	suite.Empty(users)
}

func (suite *UserServiceTestSuite) TestRenameUser_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	updaterID := uuid.NewString()
	existing := &domain.User{UserID: userID, ExternalID: "wa:+15550004", Name: "Old name"}

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(existing, nil).Once()
	suite.mockUserRepo.On("UpdateUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == userID && u.Name == "New name" && u.LastUpdatedBy == updaterID
	})).Return(nil).Once()

	user, err := suite.service.RenameUser(ctx, userID, "New name", updaterID)

	suite.Require().NoError(err)
	suite.Equal("New name", user.Name)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRenameUser_EmptyName() {
	ctx := context.Background()

	user, err := suite.service.RenameUser(ctx, uuid.NewString(), "", uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "UpdateUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestDeactivateUser_UnknownUser() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("MarkUserDeleted", ctx, userID, mock.AnythingOfType("time.Time"), "admin").Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateUser(ctx, userID, "admin")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
