package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends operator alerts via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	toEmail   string
	enabled   bool
}

// NewEmailService creates a new email service.
// With no from address configured the service is disabled and all sends
// become no-ops.
func NewEmailService(awsRegion, fromEmail, toEmail string) (*EmailService, error) {
	if fromEmail == "" || toEmail == "" {
		log.Println("Email alerts disabled: ALERT_FROM_EMAIL or ALERT_TO_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email alerts enabled: from=%s, to=%s, region=%s", fromEmail, toEmail, awsRegion)
	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		toEmail:   toEmail,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendGenerationAlert notifies the operator that quote generation is
// running on static fallback text only
func (s *EmailService) SendGenerationAlert(ctx context.Context, reason string) error {
	if !s.enabled {
		log.Printf("Skipping alert email (service disabled): %s", reason)
		return nil
	}

	subject := "TypeTracker: quote generation degraded"
	textBody := fmt.Sprintf(`Quote generation is degraded.

%s

Players are being served static fallback sentences. Check the Gemini API
key, quota, and recent server logs.
`, reason)

	return s.sendEmail(ctx, subject, textBody)
}

// sendEmail sends a plain-text email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, subject, textBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	log.Printf("Alert email sent: subject=%s", subject)
	return nil
}
