package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/buildledger/site_ledger_app/internal/apperrors"
	"github.com/buildledger/site_ledger_app/internal/core/domain"
	"github.com/buildledger/site_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProjectMemberGuardTestSuite struct {
	suite.Suite
	mockAuthorizer *MockProjectAuthorizer
	router         *gin.Engine
	projectID      string
	userID         string
}

func (suite *ProjectMemberGuardTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockAuthorizer = new(MockProjectAuthorizer)
	suite.projectID = uuid.NewString()
	suite.userID = uuid.NewString()

	suite.router = gin.New()
	guarded := suite.router.Group("/projects/:project_id", requireProjectMember(suite.mockAuthorizer))
	guarded.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"projectID": c.Param("project_id")})
	})
}

func TestProjectMemberGuardTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectMemberGuardTestSuite))
}

func (suite *ProjectMemberGuardTestSuite) serve(authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/projects/"+suite.projectID, nil)
	if authenticated {
		req = req.WithContext(middleware.ContextWithUserID(req.Context(), suite.userID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ProjectMemberGuardTestSuite) TestMemberPassesThrough() {
	suite.mockAuthorizer.On("AuthorizeMember", mock.Anything, suite.userID, suite.projectID, domain.RoleReadOnly).
		Return(nil).Once()

	w := suite.serve(true)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockAuthorizer.AssertExpectations(suite.T())
}

func (suite *ProjectMemberGuardTestSuite) TestNonMemberGetsNotFound() {
	suite.mockAuthorizer.On("AuthorizeMember", mock.Anything, suite.userID, suite.projectID, domain.RoleReadOnly).
		Return(apperrors.ErrNotFound).Once()

	w := suite.serve(true)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Contains(w.Body.String(), "Project not found")
}

func (suite *ProjectMemberGuardTestSuite) TestInsufficientRoleGetsForbidden() {
	suite.mockAuthorizer.On("AuthorizeMember", mock.Anything, suite.userID, suite.projectID, domain.RoleReadOnly).
		Return(apperrors.ErrForbidden).Once()

	w := suite.serve(true)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *ProjectMemberGuardTestSuite) TestUnauthenticatedGetsUnauthorized() {
	w := suite.serve(false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAuthorizer.AssertNotCalled(suite.T(), "AuthorizeMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
