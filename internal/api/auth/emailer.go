package auth

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"web3builder/config"
)

// sendCode mails a sign-in code. Without SMTP configured the code is logged
// instead, which is how local development signs in.
var sendCode = func(to, code string) error {
	if !config.SMTPEnabled() {
		slog.Info("sign-in code (smtp disabled)", "email", to, "code", code)
		return nil
	}

	auth := smtp.PlainAuth("", config.SMTP_FROM, config.SMTP_PASSWORD, config.SMTP_HOST)

	subject := "Your sign-in code"
	body := fmt.Sprintf("Your sign-in code is %s\n\nIt expires in 10 minutes.", code)

	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + config.SMTP_FROM + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	err := smtp.SendMail(config.SMTP_HOST+":"+config.SMTP_PORT, auth, config.SMTP_FROM, []string{to}, message)
	if err != nil {
		slog.Error("smtp send failed", "email", to, "error", err)
	}
	return err
}
