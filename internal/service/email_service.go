package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends transactional email through AWS SESv2. When no from
// address is configured the service runs disabled and every send is a logged
// no-op, which keeps local development working without AWS credentials.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewEmailService creates a new email service
func NewEmailService(region, fromEmail, fromName string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: no from address configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// SendWelcomeEmail sends the post-registration welcome email
func (s *EmailService) SendWelcomeEmail(to, displayName string) error {
	subject := "Welcome to CaseClash"
	textBody := fmt.Sprintf(
		"Hi %s,\n\nWelcome to CaseClash! A new diagnostic case is waiting for you every day.\n\nGood luck,\nThe CaseClash team\n",
		displayName)
	htmlBody := fmt.Sprintf(
		`<html><body><p>Hi %s,</p><p>Welcome to CaseClash! A new diagnostic case is waiting for you every day.</p><p>Good luck,<br>The CaseClash team</p></body></html>`,
		displayName)

	return s.send(to, subject, textBody, htmlBody)
}

// SendPasswordResetEmail sends a password reset link
func (s *EmailService) SendPasswordResetEmail(to, displayName, resetURL string) error {
	subject := "Reset your CaseClash password"
	textBody := fmt.Sprintf(
		"Hi %s,\n\nSomeone requested a password reset for your account. If this was you, open the link below within the next hour:\n\n%s\n\nIf you didn't request this, you can ignore this email.\n",
		displayName, resetURL)
	htmlBody := fmt.Sprintf(
		`<html><body><p>Hi %s,</p><p>Someone requested a password reset for your account. If this was you, open the link below within the next hour:</p><p><a href="%s">Reset password</a></p><p>If you didn't request this, you can ignore this email.</p></body></html>`,
		displayName, resetURL)

	return s.send(to, subject, textBody, htmlBody)
}

func (s *EmailService) send(to, subject, textBody, htmlBody string) error {
	if !s.enabled {
		log.Printf("Email service disabled, skipping email to %s: %s", to, subject)
		return nil
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(context.Background(), input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
