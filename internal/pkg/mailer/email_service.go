// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendContactNotification(referenceID, name, email, phone, programme, queryType, message string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	teamEmail   string
}

// NewEmailService sends admission team notifications through SMTP. teamEmail
// is the shared inbox the admissions staff monitors.
func NewEmailService(host string, port int, username, password, senderEmail, teamEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		teamEmail:   teamEmail,
	}
}

func (s *emailService) SendContactNotification(referenceID, name, email, phone, programme, queryType, message string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.teamEmail)
	m.SetHeader("Subject", fmt.Sprintf("New contact request %s (%s)", referenceID, queryType))

	if message == "" {
		message = "(none)"
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New Contact Request</h2>
			<p>A chatbot user asked to be contacted by the admissions team.</p>
			<table style="border-collapse: collapse;">
				<tr><td style="padding: 4px 12px 4px 0;"><b>Reference</b></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><b>Name</b></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><b>Email</b></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><b>Phone</b></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><b>Programme</b></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><b>Query Type</b></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><b>Message</b></td><td>%s</td></tr>
			</table>
		</div>
	`, referenceID, name, email, phone, programme, queryType, message)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send contact notification %s: %v\n", referenceID, err)
		return err
	}

	fmt.Printf("[MAILER] Contact notification %s sent to %s\n", referenceID, s.teamEmail)
	return nil
}
