package mail

import (
	"context"
	"fmt"
	"html"
)

// Message is one outgoing email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Render wraps body in the branded HTML layout. title is escaped, body is not.
func Render(appName, title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
		.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
		.header { background-color: #1B2A4A; padding: 30px; text-align: center; }
		.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
		.content { padding: 40px 30px; color: #1B2A4A; line-height: 1.6; }
		.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>%s</h1></div>
		<div class="content">
			<h2>%s</h2>
			%s
		</div>
		<div class="footer">You are receiving this email because of activity on your %s account.</div>
	</div>
</body>
</html>`, html.EscapeString(appName), html.EscapeString(title), body, html.EscapeString(appName))
}
