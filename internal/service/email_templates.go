package service

import "fmt"

func verifyEmailMessage(to string, url string) Message {
	return Message{
		To:      to,
		Subject: "Verify your email address",
		Text:    fmt.Sprintf("Click the link to verify your email address: %s", url),
		HTML: fmt.Sprintf(
			"<p>Click the link below to verify your email address:</p><p><a href=\"%s\">Verify email address</a></p>",
			url,
		),
	}
}

func passwordResetMessage(to string, url string) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		Text:    fmt.Sprintf("Click the link to reset your password: %s", url),
		HTML: fmt.Sprintf(
			"<p>Click the link below to reset your password:</p><p><a href=\"%s\">Reset password</a></p>",
			url,
		),
	}
}
