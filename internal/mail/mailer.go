package mail

import (
	"fmt" // Message body formatting

	"gopkg.in/gomail.v2" // SMTP client
)

// Sender delivers verification and reset codes over SMTP
type Sender struct {
	dialer *gomail.Dialer // Reused SMTP dialer
	from   string         // From address
}

// NewSender builds a Sender for the given SMTP account
func NewSender(host string, port int, user, pass string) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

// SendVerificationCode emails a 6-digit verification code to the recipient
func (s *Sender) SendVerificationCode(to, code string) error {
	body := fmt.Sprintf(
		"<h2>Verificación de Cuenta</h2>"+
			"<p>Gracias por registrarte en App Ventas. Para completar tu registro, utiliza el siguiente código de verificación:</p>"+
			"<h1>%s</h1>"+
			"<p>Este código expira en 10 minutos.</p>", code)
	return s.send(to, "Código de Verificación - App Ventas", body)
}

// SendResetCode emails a password reset code to the recipient
func (s *Sender) SendResetCode(to, code string) error {
	body := fmt.Sprintf(
		"<h2>Restablecer Contraseña</h2>"+
			"<p>Utiliza el siguiente código para restablecer tu contraseña:</p>"+
			"<h1>%s</h1>"+
			"<p>Este código expira en 10 minutos. Si no solicitaste este cambio, ignora este correo.</p>", code)
	return s.send(to, "Restablecer Contraseña - App Ventas", body)
}

func (s *Sender) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}
