//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/stretchr/testify/suite"
)

type AuthTestSuite struct {
	suite.Suite
	client   *http.Client
	username string
}

func (suite *AuthTestSuite) SetupSuite() {
	suite.client = &http.Client{Timeout: 30 * time.Second}
	suite.username = fmt.Sprintf("it-user-%d", time.Now().UnixNano())
}

func (suite *AuthTestSuite) TestLoginCreatesThenReusesUser() {
	var first user.LoginResponse
	status, err := doJSON(suite.client, "POST", "/api/v1/login", "", user.LoginRequest{Username: suite.username}, &first)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	suite.NotEmpty(first.Token)
	suite.Equal(suite.username, first.User.Username)

	var second user.LoginResponse
	status, err = doJSON(suite.client, "POST", "/api/v1/login", "", user.LoginRequest{Username: suite.username}, &second)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	suite.Equal(first.User.ID, second.User.ID)

	var me user.UserResponse
	status, err = doJSON(suite.client, "GET", "/api/v1/users/me", second.Token, nil, &me)
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, status)
	suite.Equal(suite.username, me.Username)
}

func (suite *AuthTestSuite) TestLoginRejectsBlankUsername() {
	status, err := doJSON(suite.client, "POST", "/api/v1/login", "", user.LoginRequest{Username: "   "}, nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusBadRequest, status)
}

func (suite *AuthTestSuite) TestProtectedRoutesRequireToken() {
	for _, path := range []string{"/api/v1/users/me", "/api/v1/interactions/history", "/api/v1/interactions/likes"} {
		status, err := doJSON(suite.client, "GET", path, "", nil, nil)
		suite.Require().NoError(err)
		suite.Equal(http.StatusUnauthorized, status, path)
	}

	status, err := doJSON(suite.client, "GET", "/api/v1/users/me", "not-a-token", nil, nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusUnauthorized, status)
}
