package services

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-tools-hub/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	c, _ := args.Get(0).(smtp.Client)
	return c, args.Error(1)
}

func (m *MockTransport) Sender() string {
	return m.Called().String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error { return m.Called(from).Error(0) }
func (m *MockSMTPClient) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *MockSMTPClient) Quit() error            { return m.Called().Error(0) }
func (m *MockSMTPClient) Close() error           { return m.Called().Error(0) }

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	w, _ := args.Get(0).(io.WriteCloser)
	return w, args.Error(1)
}

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const expiredBody = `{"userId":"u1","email":"riya@example.com","name":"Riya","expiredAt":"2026-10-19T09:30:00Z"}`

func TestNotifierService_SendSubscriptionExpired(t *testing.T) {
	t.Run("sends email", func(t *testing.T) {
		transport := new(MockTransport)
		client := new(MockSMTPClient)
		body := &bufferCloser{}

		transport.On("Sender").Return("noreply@studytoolshub.com")
		transport.On("Connect").Return(client, nil).Once()
		client.On("Mail", "noreply@studytoolshub.com").Return(nil).Once()
		client.On("Rcpt", "riya@example.com").Return(nil).Once()
		client.On("Data").Return(body, nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		err := NewNotifierService(transport, newNoopLogger()).SendSubscriptionExpired([]byte(expiredBody))
		require.NoError(t, err)

		assert.True(t, body.closed)
		assert.Contains(t, body.String(), "To: riya@example.com")
		assert.Contains(t, body.String(), "Hello, Riya!")
		assert.Contains(t, body.String(), "19 October 2026")
		transport.AssertExpectations(t)
		client.AssertExpectations(t)
	})

	t.Run("invalid json", func(t *testing.T) {
		transport := new(MockTransport)

		err := NewNotifierService(transport, newNoopLogger()).SendSubscriptionExpired([]byte("nope"))
		assert.ErrorContains(t, err, "error unmarshalling message")
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("missing email is dropped", func(t *testing.T) {
		transport := new(MockTransport)

		err := NewNotifierService(transport, newNoopLogger()).SendSubscriptionExpired([]byte(`{"userId":"u1"}`))
		assert.NoError(t, err)
		transport.AssertNotCalled(t, "Connect")
	})

	t.Run("connection error", func(t *testing.T) {
		transport := new(MockTransport)
		transport.On("Sender").Return("noreply@studytoolshub.com")
		transport.On("Connect").Return(nil, errors.New("connection refused")).Once()

		err := NewNotifierService(transport, newNoopLogger()).SendSubscriptionExpired([]byte(expiredBody))
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("recipient rejected", func(t *testing.T) {
		transport := new(MockTransport)
		client := new(MockSMTPClient)
		transport.On("Sender").Return("noreply@studytoolshub.com")
		transport.On("Connect").Return(client, nil).Once()
		client.On("Mail", "noreply@studytoolshub.com").Return(nil).Once()
		client.On("Rcpt", "riya@example.com").Return(errors.New("550 mailbox unavailable")).Once()
		client.On("Close").Return(nil).Once()

		err := NewNotifierService(transport, newNoopLogger()).SendSubscriptionExpired([]byte(expiredBody))
		assert.ErrorContains(t, err, "550 mailbox unavailable")
		client.AssertNotCalled(t, "Data")
	})
}
