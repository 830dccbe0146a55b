package mailer

import (
	"fmt"
	"html"

	"gopkg.in/gomail.v2"
)

type Receipt struct {
	ChargeID    string
	Description string
	Amount      string
	Currency    string
}

type IEmailService interface {
	SendWelcome(toEmail, name string) error
	SendReceipt(toEmail string, receipt Receipt) error
}

type emailService struct {
	send        func(m *gomail.Message) error
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)
	return &emailService{
		send:        func(m *gomail.Message) error { return d.DialAndSend(m) },
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) newMessage(toEmail, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *emailService) SendWelcome(toEmail, name string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome, %s!</h2>
			<p>Your account is ready. Open any product page and tap <b>View in AR</b> to place it in your room.</p>
		</div>
	`, html.EscapeString(name))

	if err := s.send(s.newMessage(toEmail, "Welcome to "+s.senderName, body)); err != nil {
		return fmt.Errorf("failed to send welcome mail to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) SendReceipt(toEmail string, r Receipt) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thank you for your order</h2>
			<p>%s</p>
			<p>Amount charged: <b>%s %s</b></p>
			<p style="color: #888;">Reference: %s</p>
		</div>
	`, html.EscapeString(r.Description), html.EscapeString(r.Amount), html.EscapeString(r.Currency), html.EscapeString(r.ChargeID))

	if err := s.send(s.newMessage(toEmail, "Your receipt", body)); err != nil {
		return fmt.Errorf("failed to send receipt to %s: %w", toEmail, err)
	}
	return nil
}

type noopEmailService struct{}

// NewNoopEmailService is used when SMTP is not configured.
func NewNoopEmailService() IEmailService {
	return noopEmailService{}
}

func (noopEmailService) SendWelcome(string, string) error { return nil }

func (noopEmailService) SendReceipt(string, Receipt) error { return nil }
