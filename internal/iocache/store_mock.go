package iocache

import (
	"context"
	"time"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetEntryStore implements the StoreManager interface.
func (m *MockStoreManager) GetEntryStore() contract.EntryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.EntryStore)
	return store
}

// GetEventLogStore implements the StoreManager interface.
func (m *MockStoreManager) GetEventLogStore() contract.EventLogStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.EventLogStore)
	return store
}

// MockEntryStore is a mock implementation of EntryStore for testing.
type MockEntryStore struct {
	mock.Mock
}

var _ contract.EntryStore = &MockEntryStore{} // Compile-time check

// Get implements the EntryStore interface.
func (m *MockEntryStore) Get(ctx context.Context, topic, uuid string) ([]byte, time.Time, error) {
	args := m.Called(ctx, topic, uuid)
	value, _ := args.Get(0).([]byte)
	return value, args.Get(1).(time.Time), args.Error(2)
}

// Put implements the EntryStore interface.
func (m *MockEntryStore) Put(ctx context.Context, topic, uuid string, value []byte, updatedAt time.Time) error {
	args := m.Called(ctx, topic, uuid, value, updatedAt)
	return args.Error(0)
}

// Delete implements the EntryStore interface.
func (m *MockEntryStore) Delete(ctx context.Context, topic, uuid string) (bool, error) {
	args := m.Called(ctx, topic, uuid)
	return args.Bool(0), args.Error(1)
}

// List implements the EntryStore interface.
func (m *MockEntryStore) List(ctx context.Context) ([]schema.EntryRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.EntryRecord)
	return records, args.Error(1)
}

// GetStatus implements the EntryStore interface.
func (m *MockEntryStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the EntryStore interface.
func (m *MockEntryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockEventLogStore is a mock implementation of EventLogStore for testing.
type MockEventLogStore struct {
	mock.Mock
}

var _ contract.EventLogStore = &MockEventLogStore{} // Compile-time check

// Record implements the EventSink interface.
func (m *MockEventLogStore) Record(ctx context.Context, ev schema.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// List implements the EventLogStore interface.
func (m *MockEventLogStore) List(ctx context.Context) ([]schema.EventRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.EventRecord)
	return records, args.Error(1)
}

// GetStatus implements the EventLogStore interface.
func (m *MockEventLogStore) GetStatus() (schema.EventLogStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.EventLogStatus), args.Error(1)
}

// Close implements the EventLogStore interface.
func (m *MockEventLogStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
