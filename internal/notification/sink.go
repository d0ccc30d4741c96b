package notification

import (
	"context"
	"fmt"
	"strings"

	"stock-watchlist/internal/dto"
)

// Sink is one delivery channel for triggered alerts. Send delivers a single
// consolidated message covering every alert of the cycle; channels fail
// independently of each other.
type Sink interface {
	Name() string
	Send(ctx context.Context, alerts []dto.Alert) error
}

// consolidatedBody renders the plain-text body shared by text-oriented
// channels: one block per alert, separated by rules.
func consolidatedBody(alerts []dto.Alert) string {
	var b strings.Builder
	b.WriteString("Stock Watchlist Alert\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for _, alert := range alerts {
		b.WriteString(alert.Message())
		b.WriteString("\n" + strings.Repeat("-", 50) + "\n\n")
	}

	b.WriteString("This is an automated message from your stock watchlist.\n")
	return b.String()
}

func consolidatedSubject(alerts []dto.Alert) string {
	return fmt.Sprintf("Stock Alert: %d Target(s) Met", len(alerts))
}
