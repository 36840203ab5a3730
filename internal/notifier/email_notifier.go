package notifier

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/Keoroanthony/go-customers/configs"
	"github.com/Keoroanthony/go-customers/internal/models"
)

// sesAPI is the subset of the SES client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSender sends email through Amazon SES.
type SESSender struct {
	client sesAPI
	sender string
	log    *slog.Logger
}

// NewSESSender loads the AWS configuration. Static credentials are used when
// both keys are set, otherwise the default credential chain applies.
func NewSESSender(ctx context.Context, cfg config.EmailConfig, log *slog.Logger) (*SESSender, error) {
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("sender email address is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return &SESSender{client: ses.NewFromConfig(awsCfg), sender: cfg.SenderEmail, log: log}, nil
}

func (s *SESSender) SendEmail(ctx context.Context, to string, msg Message) error {
	if to == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(msg.Subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(msg.HTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(msg.Text),
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "email sent", "to", to, "subject", msg.Subject)
	return nil
}

func displayName(c *models.Customer) string {
	if c.Data.FirstName != "" {
		return c.Data.FirstName
	}
	return c.Email
}

func welcomeMessage(c *models.Customer) Message {
	name := displayName(c)
	return Message{
		Subject: "Welcome!",
		Text: fmt.Sprintf(
			"Dear %s,\n\nYour account %s has been created. You can now sign in with the password you chose.\n\nBest regards,\nCustomer Service",
			name, c.Email),
		HTML: fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>Your account <strong>%s</strong> has been created. You can now sign in with the password you chose.</p>
            <p>Best regards,</p>
            <p>Customer Service</p>
        </body>
        </html>`, html.EscapeString(name), html.EscapeString(c.Email)),
	}
}

func temporaryPasswordMessage(c *models.Customer, password string) Message {
	name := displayName(c)
	return Message{
		Subject: "Your new account",
		Text: fmt.Sprintf(
			"Dear %s,\n\nAn account has been created for you.\n\nLogin: %s\nTemporary password: %s\n\nPlease change it after your first sign in.\n\nBest regards,\nCustomer Service",
			name, c.Email, password),
		HTML: fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>An account has been created for you.</p>
            <ul>
                <li>Login: %s</li>
                <li>Temporary password: <code>%s</code></li>
            </ul>
            <p>Please change it after your first sign in.</p>
            <p>Best regards,</p>
            <p>Customer Service</p>
        </body>
        </html>`, html.EscapeString(name), html.EscapeString(c.Email), password),
	}
}

func passwordChangedMessage(c *models.Customer) Message {
	name := displayName(c)
	return Message{
		Subject: "Your password was changed",
		Text: fmt.Sprintf(
			"Dear %s,\n\nThe password of your account %s was just changed. If this was not you, contact us immediately.\n\nBest regards,\nCustomer Service",
			name, c.Email),
		HTML: fmt.Sprintf(`
        <html>
        <body>
            <p>Dear %s,</p>
            <p>The password of your account <strong>%s</strong> was just changed. If this was not you, contact us immediately.</p>
            <p>Best regards,</p>
            <p>Customer Service</p>
        </body>
        </html>`, html.EscapeString(name), html.EscapeString(c.Email)),
	}
}
