package providers

import "context"

// ReminderSender delivers patient messages over a messaging channel. Both methods return the
// provider's message id.
type ReminderSender interface {
	SendTemplate(ctx context.Context, to, templateName, languageCode string, parameters []string) (string, error)
	SendText(ctx context.Context, to, body string) (string, error)
}
