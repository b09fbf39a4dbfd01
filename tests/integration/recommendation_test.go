//go:build integration
// +build integration

package integration

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Akshu121796/Personalized-Recommendation-System/internal/interaction"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/recommendation"
	"github.com/Akshu121796/Personalized-Recommendation-System/internal/user"
	"github.com/stretchr/testify/suite"
)

type RecommendationTestSuite struct {
	suite.Suite
	client *http.Client
	token  string
	items  recommendation.ItemPageResponse
}

func (suite *RecommendationTestSuite) SetupSuite() {
	suite.client = &http.Client{Timeout: 30 * time.Second}

	var login user.LoginResponse
	username := fmt.Sprintf("it-recs-%d", time.Now().UnixNano())
	status, err := doJSON(suite.client, "POST", "/api/v1/login", "", user.LoginRequest{Username: username}, &login)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	suite.token = login.Token

	status, err = doJSON(suite.client, "GET", "/api/v1/items?page=1&limit=10", "", nil, &suite.items)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	suite.Require().GreaterOrEqual(len(suite.items.Items), 2, "the catalog needs at least two items")
}

func (suite *RecommendationTestSuite) TestTrendingIsOrderedByPopularity() {
	var response recommendation.ItemsResponse
	status, err := doJSON(suite.client, "GET", "/api/v1/trending?limit=5", "", nil, &response)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)

	for i := 1; i < len(response.Items); i++ {
		suite.GreaterOrEqual(response.Items[i-1].Popularity, response.Items[i].Popularity)
	}
}

func (suite *RecommendationTestSuite) TestSimilarExcludesSeed() {
	seed := suite.items.Items[0].ID

	var response recommendation.ItemsResponse
	status, err := doJSON(suite.client, "GET", "/api/v1/items/"+seed+"/similar?limit=5", "", nil, &response)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	for _, item := range response.Items {
		suite.NotEqual(seed, item.ID)
	}

	status, err = doJSON(suite.client, "GET", "/api/v1/items/does-not-exist/similar", "", nil, nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusNotFound, status)
}

func (suite *RecommendationTestSuite) TestAnonymousFeed() {
	var feed recommendation.FeedResponse
	status, err := doJSON(suite.client, "GET", "/api/v1/feed", "", nil, &feed)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	suite.Require().Len(feed.Sections, 2)
	suite.Equal(recommendation.SectionFresh, feed.Sections[0].Key)
	suite.Equal(recommendation.SectionTrending, feed.Sections[1].Key)
}

func (suite *RecommendationTestSuite) TestInteractionsDrivePersonalFeed() {
	viewed := suite.items.Items[0].ID
	liked := suite.items.Items[1].ID

	status, err := doJSON(suite.client, "POST", "/api/v1/interactions", suite.token,
		interaction.RecordRequest{ItemID: viewed, Action: interaction.ActionViewed}, nil)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusCreated, status)

	status, err = doJSON(suite.client, "POST", "/api/v1/interactions", suite.token,
		interaction.RecordRequest{ItemID: liked, Action: interaction.ActionLiked}, nil)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusCreated, status)

	var history interaction.HistoryResponse
	status, err = doJSON(suite.client, "GET", "/api/v1/interactions/history", suite.token, nil, &history)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	suite.Equal([]string{liked, viewed}, history.ItemIDs)

	var likes recommendation.ItemsResponse
	status, err = doJSON(suite.client, "GET", "/api/v1/interactions/likes", suite.token, nil, &likes)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	suite.Require().Len(likes.Items, 1)
	suite.Equal(liked, likes.Items[0].ID)

	var feed recommendation.FeedResponse
	status, err = doJSON(suite.client, "GET", "/api/v1/feed", suite.token, nil, &feed)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	suite.Require().NotEmpty(feed.Sections)
	suite.Equal(recommendation.SectionRecommended, feed.Sections[0].Key)
	for _, item := range feed.Sections[0].Items {
		suite.NotEqual(viewed, item.ID)
		suite.NotEqual(liked, item.ID)
	}
}

func (suite *RecommendationTestSuite) TestInteractionValidation() {
	status, err := doJSON(suite.client, "POST", "/api/v1/interactions", suite.token,
		interaction.RecordRequest{ItemID: suite.items.Items[0].ID, Action: "shared"}, nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusBadRequest, status)

	status, err = doJSON(suite.client, "POST", "/api/v1/interactions", suite.token,
		interaction.RecordRequest{ItemID: "does-not-exist"}, nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusNotFound, status)
}

func (suite *RecommendationTestSuite) TestPersonalizeEndpoint() {
	var response recommendation.ItemsResponse
	status, err := doJSON(suite.client, "POST", "/api/v1/recommendations/personalize", "",
		recommendation.PersonalizeRequest{SeedIDs: []string{suite.items.Items[0].ID}, Limit: 3}, &response)
	suite.Require().NoError(err)
	suite.Require().Equal(http.StatusOK, status)
	suite.LessOrEqual(response.Count, 3)
}

func (suite *RecommendationTestSuite) TestRecommendationResponseTime() {
	start := time.Now()
	status, err := doJSON(suite.client, "GET", "/api/v1/recommendations?limit=8", suite.token, nil, nil)
	suite.Require().NoError(err)
	suite.Equal(http.StatusOK, status)
	suite.Less(time.Since(start), 2*time.Second)
}
