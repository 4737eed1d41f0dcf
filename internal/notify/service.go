package notify

import (
	"context"
	"fmt"

	"stridewms/internal/config"
)

// Service is the delivery fan-out handed to the comms dispatcher: email
// goes out over SMTP, SMS through the hosted function.
type Service struct {
	email     *EmailSender
	functions *FunctionClient
}

func NewService(cfg config.Config) *Service {
	return &Service{
		email:     NewEmailSender(cfg),
		functions: NewFunctionClient(cfg),
	}
}

func (s *Service) SendEmail(to, subject, htmlBody, textBody string) error {
	return s.email.SendEmail(to, subject, htmlBody, textBody)
}

func (s *Service) SendSMS(to, body string) error {
	ok, err := s.functions.Invoke(context.Background(), "send-sms", map[string]string{"to": to, "body": body})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("sms to %s was not accepted", to)
	}
	return nil
}

func (s *Service) Functions() *FunctionClient {
	return s.functions
}
