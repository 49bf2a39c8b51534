package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"net/http"

	"codeclass/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const appName = "CodeClass"

// mailSender delivers one rendered message
type mailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlBody, textBody string) error
	Name() string
}

// EmailConfig selects and configures the mail provider
type EmailConfig struct {
	// Provider is "ses", "sendgrid" or empty to disable mail
	Provider       string
	AWSRegion      string
	FromEmail      string
	FromName       string
	SendgridAPIKey string
	AppBaseURL     string
	Debug          bool
}

// EmailService sends account notifications via Amazon SES or SendGrid
type EmailService struct {
	sender     mailSender
	appBaseURL string
	enabled    bool
	debug      bool
}

// NewEmailService creates a new email service
func NewEmailService(cfg EmailConfig) (*EmailService, error) {
	disabled := &EmailService{debug: cfg.Debug, appBaseURL: cfg.AppBaseURL}

	if cfg.FromEmail == "" || cfg.Provider == "" {
		log.Println("Email service disabled: EMAIL_PROVIDER or SES_FROM_EMAIL not configured")
		return disabled, nil
	}

	var sender mailSender
	switch cfg.Provider {
	case "ses":
		if cfg.Debug {
			log.Printf("[DEBUG] Initializing email service with AWS SES (region %s)", cfg.AWSRegion)
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		sender = &sesSender{client: sesv2.NewFromConfig(awsCfg), fromEmail: cfg.FromEmail, fromName: cfg.FromName}
	case "sendgrid":
		if cfg.SendgridAPIKey == "" {
			log.Println("Email service disabled: SENDGRID_API_KEY not configured")
			return disabled, nil
		}
		sender = &sendgridSender{key: cfg.SendgridAPIKey, from: sgmail.NewEmail(cfg.FromName, cfg.FromEmail)}
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}

	log.Printf("Email service enabled: provider=%s, from=%s", sender.Name(), cfg.FromEmail)
	return &EmailService{
		sender:     sender,
		appBaseURL: cfg.AppBaseURL,
		enabled:    true,
		debug:      cfg.Debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s != nil && s.enabled
}

// SendWelcomeEmail greets a new account. Pending accounts are told to wait
// for approval.
func (s *EmailService) SendWelcomeEmail(ctx context.Context, account *models.Account) error {
	if !s.IsEnabled() {
		log.Printf("Skipping email send (service disabled): welcome to %s", account.Email)
		return nil
	}

	next := "You can start your first lesson right away."
	if account.Status == models.StatusPending {
		next = "An instructor will review your account shortly. We'll email you once you're approved."
	}

	subject := "Welcome to " + appName + "!"
	return s.send(ctx, account, subject,
		"Welcome to "+appName+"!",
		fmt.Sprintf("Thanks for signing up. %s", next),
		"Go to your dashboard", s.appBaseURL+"/")
}

// SendStatusEmail tells an account that an administrator changed its status
func (s *EmailService) SendStatusEmail(ctx context.Context, account *models.Account) error {
	if !s.IsEnabled() {
		log.Printf("Skipping email send (service disabled): status %s to %s", account.Status, account.Email)
		return nil
	}

	switch account.Status {
	case models.StatusActive:
		return s.send(ctx, account, "Your "+appName+" account is approved",
			"You're in!",
			"Your account has been approved. All lessons and live classes are now open to you.",
			"Start learning", s.appBaseURL+"/")
	case models.StatusRejected:
		return s.send(ctx, account, "Your "+appName+" account request",
			"Account request declined",
			"Unfortunately your account request was not approved. Reply to your instructor if you think this is a mistake.",
			"", "")
	default:
		return nil
	}
}

func (s *EmailService) send(ctx context.Context, account *models.Account, subject, heading, body, buttonLabel, buttonURL string) error {
	name := account.DisplayName
	if name == "" {
		name = account.Email
	}

	button := ""
	buttonText := ""
	if buttonLabel != "" {
		button = fmt.Sprintf(`<p style="text-align: center;"><a href="%s" class="button">%s</a></p>`,
			html.EscapeString(buttonURL), html.EscapeString(buttonLabel))
		buttonText = fmt.Sprintf("\n%s: %s\n", buttonLabel, buttonURL)
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4f46e5; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.button { display: inline-block; padding: 12px 30px; background-color: #4f46e5; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>Hi %s,</p>
			<p>%s</p>
			%s
		</div>
		<div class="footer">
			<p>This is an automated email from %s. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(heading), html.EscapeString(name), html.EscapeString(body), button, appName)

	textBody := fmt.Sprintf(`Hi %s,

%s
%s
---
This is an automated email from %s. Please do not reply.
`, name, body, buttonText, appName)

	if s.debug {
		log.Printf("[DEBUG] Sending email via %s: subject=%s, to=%s", s.sender.Name(), subject, account.Email)
	}

	if err := s.sender.Send(ctx, account.Email, name, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", account.Email, err)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", account.Email, subject)
	return nil
}

// sesSender sends through Amazon SES v2
type sesSender struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
}

func (s *sesSender) Name() string { return "ses" }

func (s *sesSender) Send(ctx context.Context, toEmail, _, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}

// sendgridSender sends through the SendGrid v3 API
type sendgridSender struct {
	key  string
	from *sgmail.Email
}

func (s *sendgridSender) Name() string { return "sendgrid" }

func (s *sendgridSender) Send(_ context.Context, toEmail, toName, subject, htmlBody, textBody string) error {
	m := sgmail.NewSingleEmail(s.from, subject, sgmail.NewEmail(toName, toEmail), textBody, htmlBody)

	req := sendgrid.GetRequest(s.key, "/v3/mail/send", "https://api.sendgrid.com")
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
