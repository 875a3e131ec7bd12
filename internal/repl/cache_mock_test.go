package repl

import (
	"context"
	"encoding/json"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of contract.Cache.
type MockCache struct {
	mock.Mock
}

var _ contract.Cache = &MockCache{}

func (m *MockCache) GetHash(ctx context.Context) (schema.Hash, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.Hash), args.Error(1)
}

func (m *MockCache) Peers(ctx context.Context) ([]schema.PeerRecord, error) {
	args := m.Called(ctx)
	peers, _ := args.Get(0).([]schema.PeerRecord)
	return peers, args.Error(1)
}

func (m *MockCache) Send(ctx context.Context, value json.RawMessage) error {
	return m.Called(ctx, value).Error(0)
}

func (m *MockCache) Put(ctx context.Context, topic, uuid string, value json.RawMessage) error {
	return m.Called(ctx, topic, uuid, value).Error(0)
}

func (m *MockCache) Del(ctx context.Context, topic, uuid string) error {
	return m.Called(ctx, topic, uuid).Error(0)
}
