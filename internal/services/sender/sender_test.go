package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cardlink/internal/lib/smtp"
	"github.com/magabrotheeeer/cardlink/internal/models"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written strings.Builder
}

func (m *MockSMTPWriter) Write(p []byte) (int, error) {
	args := m.Called(p)
	m.written.Write(p)
	return len(p), args.Error(0)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSendTrialExpiringNotice(t *testing.T) {
	user := models.User{
		UID:      "uid-1",
		Email:    "test@example.com",
		Username: "testuser",
	}
	body, err := json.Marshal(user)
	require.NoError(t, err)

	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := new(MockSMTPWriter)

	transport.On("GetSMTPUser").Return("noreply@cardlink.test")
	transport.On("Connect").Return(client, nil)
	client.On("Mail", "noreply@cardlink.test").Return(nil)
	client.On("Rcpt", "test@example.com").Return(nil)
	client.On("Data").Return(writer, nil)
	writer.On("Write", mock.Anything).Return(nil)
	writer.On("Close").Return(nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	svc := NewSenderService(transport, "https://cardlink.test/billing/checkout", newNoopLogger())

	err = svc.SendTrialExpiringNotice(body)
	require.NoError(t, err)

	msg := writer.written.String()
	assert.Contains(t, msg, "To: test@example.com")
	assert.Contains(t, msg, "testuser")
	assert.Contains(t, msg, "https://cardlink.test/billing/checkout")

	transport.AssertExpectations(t)
	client.AssertExpectations(t)
	writer.AssertExpectations(t)
}

func TestSendSubscriptionExpiredNotice_ConnectError(t *testing.T) {
	user := models.User{Email: "test@example.com", Username: "testuser"}
	body, err := json.Marshal(user)
	require.NoError(t, err)

	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@cardlink.test")
	transport.On("Connect").Return(nil, errors.New("dial error"))

	svc := NewSenderService(transport, "https://cardlink.test/billing/checkout", newNoopLogger())

	err = svc.SendSubscriptionExpiredNotice(body)
	assert.Error(t, err)
}

func TestSendTrialExpiringNotice_BadPayload(t *testing.T) {
	svc := NewSenderService(new(MockTransport), "https://cardlink.test/billing/checkout", newNoopLogger())

	err := svc.SendTrialExpiringNotice([]byte("not json"))
	assert.Error(t, err)
}
