package mailer

import (
	"crypto/tls"
	"net"
	"net/smtp"
	"time"
)

// sendTimeout bounds the whole SMTP conversation, dial included, so a
// stalled relay cannot hold a request handler indefinitely.
const sendTimeout = 10 * time.Second

// Mailer sends transactional mail. Handlers depend on the interface so the
// password-reset flow can be exercised without an SMTP server.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     string
	from     string
	username string
	password string
	timeout  time.Duration
}

// NewSMTP builds a plain-text SMTP mailer. With an empty username no auth is
// attempted, which fits local relays like MailHog.
func NewSMTP(host, port, from, username, password string) Mailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		from:     from,
		username: username,
		password: password,
		timeout:  sendTimeout,
	}
}

func buildMessage(from, to, subject, body string) []byte {
	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body
	return []byte(msg)
}

func (m *smtpMailer) Send(to, subject, body string) error {
	addr := m.host + ":" + m.port

	conn, err := net.DialTimeout("tcp", addr, m.timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	// One deadline covers greeting, auth and data transfer.
	if err := conn.SetDeadline(time.Now().Add(m.timeout)); err != nil {
		return err
	}

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}

	if m.username != "" {
		if err := client.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return err
		}
	}

	if err := client.Mail(m.from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(buildMessage(m.from, to, subject, body)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
