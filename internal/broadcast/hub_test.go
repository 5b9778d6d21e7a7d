package broadcast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rxtech-lab/argo-streamer/internal/logger"
	"github.com/rxtech-lab/argo-streamer/internal/types"
	"github.com/stretchr/testify/suite"
)

type HubTestSuite struct {
	suite.Suite
	hub    *Hub
	server *httptest.Server
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubTestSuite))
}

func (suite *HubTestSuite) SetupTest() {
	suite.hub = NewHub(logger.NewNop())
	suite.server = httptest.NewServer(suite.hub)
}

func (suite *HubTestSuite) TearDownTest() {
	suite.hub.Close()
	suite.server.Close()
}

func (suite *HubTestSuite) dial(userID string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(suite.server.URL, "http")
	header := http.Header{}

	if userID != "" {
		header.Set(UserHeader, userID)
	}

	before := suite.hub.Clients()

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	suite.Require().NoError(err)

	suite.Require().Eventually(func() bool {
		return suite.hub.Clients() == before+1
	}, time.Second, 5*time.Millisecond)

	return conn
}

func (suite *HubTestSuite) read(conn *websocket.Conn) Envelope {
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))

	var env struct {
		Channel string          `json:"channel"`
		Data    json.RawMessage `json:"data"`
	}

	suite.Require().NoError(conn.ReadJSON(&env))

	var data any
	suite.Require().NoError(json.Unmarshal(env.Data, &data))

	return Envelope{Channel: env.Channel, Data: data}
}

func (suite *HubTestSuite) TestPricesReachEveryClient() {
	a := suite.dial("u1")
	defer a.Close()

	b := suite.dial("")
	defer b.Close()

	tick := types.TickMessage{Symbol: "BTC-USD", Price: 60000.5, Timestamp: 1700000000000}
	suite.Require().NoError(suite.hub.PublishPrice(context.Background(), tick))

	for _, conn := range []*websocket.Conn{a, b} {
		env := suite.read(conn)
		suite.Equal(ChannelPrices, env.Channel)
		suite.Equal(map[string]any{"symbol": "BTC-USD", "price": 60000.5, "timestamp": 1700000000000.0}, env.Data)
	}
}

func (suite *HubTestSuite) TestPredictions() {
	conn := suite.dial("")
	defer conn.Close()

	suite.Require().NoError(suite.hub.PublishPrediction(context.Background(), types.PredictionUnavailable))

	env := suite.read(conn)
	suite.Equal(ChannelPredictions, env.Channel)
	suite.Equal("Error", env.Data)
}

func (suite *HubTestSuite) TestNotificationsArePrivate() {
	owner := suite.dial("u1")
	defer owner.Close()

	other := suite.dial("u2")
	defer other.Close()

	suite.Require().NoError(suite.hub.Notify(context.Background(), "u1", "ALERT: hello"))
	suite.Require().NoError(suite.hub.PublishPrediction(context.Background(), "UP"))

	env := suite.read(owner)
	suite.Equal(ChannelNotifications, env.Channel)
	suite.Equal("ALERT: hello", env.Data)

	// the other user only sees the public prediction
	env = suite.read(other)
	suite.Equal(ChannelPredictions, env.Channel)
}

func (suite *HubTestSuite) TestQueryUserGetsNoNotifications() {
	url := "ws" + strings.TrimPrefix(suite.server.URL, "http") + "?user=u9"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	suite.Require().NoError(err)
	defer conn.Close()

	suite.Require().Eventually(func() bool { return suite.hub.Clients() == 1 }, time.Second, 5*time.Millisecond)

	suite.Require().NoError(suite.hub.Notify(context.Background(), "u9", "hi"))
	suite.Require().NoError(suite.hub.Notify(context.Background(), "", "anyone"))
	suite.Require().NoError(suite.hub.PublishPrediction(context.Background(), "UP"))

	env := suite.read(conn)
	suite.Equal(ChannelPredictions, env.Channel)
	suite.Equal("UP", env.Data)
}

func (suite *HubTestSuite) TestDisconnectUnregisters() {
	conn := suite.dial("u1")
	conn.Close()

	suite.Eventually(func() bool { return suite.hub.Clients() == 0 }, time.Second, 5*time.Millisecond)
	suite.NoError(suite.hub.PublishPrediction(context.Background(), "UP"))
}

func (suite *HubTestSuite) TestCloseDisconnectsClients() {
	conn := suite.dial("u1")
	defer conn.Close()

	suite.hub.Close()
	suite.Equal(0, suite.hub.Clients())

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	suite.Error(err)
}
