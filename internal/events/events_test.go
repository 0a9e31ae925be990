package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valefinance/vale/internal/domain"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	events []domain.Event
	err    error
}

func (r *recordingPublisher) Publish(ctx context.Context, e domain.Event) error {
	r.events = append(r.events, e)
	return r.err
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: errors.New("down")}
	m := NewMulti(ok, nil, failing, NewLogPublisher(zap.NewNop()))
	assert.Equal(t, 3, m.Len())

	agentID := int64(3)
	e := New(domain.EventPaymentSent, &domain.Activity{ID: 9, Title: "Payment sent", AgentID: &agentID})
	err := m.Publish(context.Background(), e)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 1)
	assert.Equal(t, domain.EventPaymentSent, ok.events[0].Kind)
}

func TestNewRedisPublisher_RequiresAddress(t *testing.T) {
	_, err := NewRedisPublisher(context.Background(), RedisConfig{})
	assert.Error(t, err)
}

func TestRedisPublisher_PublishError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	p := NewRedisPublisherWithClient(client, "")
	defer p.Close()

	assert.Equal(t, "vale:activities", p.channel)
	err := p.Publish(context.Background(), New(domain.EventAgentDeployed, &domain.Activity{ID: 1}))
	assert.Error(t, err)
}

func TestNewAMQPPublisher_RequiresURL(t *testing.T) {
	_, err := NewAMQPPublisher(AMQPConfig{})
	assert.Error(t, err)

	var p *AMQPPublisher
	assert.Error(t, p.Publish(context.Background(), domain.Event{}))
	assert.NoError(t, p.Close())
}

func TestHub_BroadcastsToSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(ctx, New(domain.EventAgentDeployed, &domain.Activity{ID: 5, Title: "Payroll Agent deployed successfully"})))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got domain.Event
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.Equal(t, domain.EventAgentDeployed, got.Kind)
	require.NotNil(t, got.Activity)
	assert.Equal(t, int64(5), got.Activity.ID)

	conn.Close()
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
