package mailer

import (
	"bytes"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func captureService(sent *[]*gomail.Message, err error) *emailService {
	return &emailService{
		send: func(m *gomail.Message) error {
			*sent = append(*sent, m)
			return err
		},
		senderEmail: "shop@example.com",
		senderName:  "AR Storefront",
	}
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendWelcome(t *testing.T) {
	var sent []*gomail.Message
	s := captureService(&sent, nil)

	require.NoError(t, s.SendWelcome("a@b.com", "<Ada>"))
	require.Len(t, sent, 1)

	assert.Equal(t, []string{"a@b.com"}, sent[0].GetHeader("To"))
	assert.Contains(t, render(t, sent[0]), "&lt;Ada&gt;")
}

func TestSendReceipt(t *testing.T) {
	var sent []*gomail.Message
	s := captureService(&sent, nil)

	require.NoError(t, s.SendReceipt("a@b.com", Receipt{ChargeID: "ch_123", Description: "Purchase of Lounge Chair", Amount: "12.50", Currency: "PKR"}))
	require.Len(t, sent, 1)

	assert.Equal(t, []string{"Your receipt"}, sent[0].GetHeader("Subject"))
	body := render(t, sent[0])
	assert.Contains(t, body, "Purchase of Lounge Chair")
	assert.Contains(t, body, "ch_123")
}

func TestSendFailureIsWrapped(t *testing.T) {
	var sent []*gomail.Message
	boom := errors.New("dial tcp: connection refused")
	s := captureService(&sent, boom)

	err := s.SendWelcome("a@b.com", "Ada")
	assert.ErrorIs(t, err, boom)
}

func TestNewEmailService_DialsSMTPServer(t *testing.T) {
	// a listener that is closed straight away gives a port nothing accepts on
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	s := NewEmailService("127.0.0.1", port, "shop@example.com", "secret", "AR Storefront")

	err = s.SendWelcome("a@b.com", "Ada")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send welcome mail to a@b.com")
}
