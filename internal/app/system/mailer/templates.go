// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// LeadEmailData holds data for the lead notification email.
type LeadEmailData struct {
	SiteName  string
	Reference string
	Name      string
	Phone     string
	Email     string
}

// BuildLeadEmail creates the notification sent to the site owner when the
// lead form is submitted. The lead's address becomes Reply-To.
func BuildLeadEmail(data LeadEmailData) Email {
	return Email{
		To:       "", // Set by caller
		ReplyTo:  data.Email,
		Subject:  fmt.Sprintf("New %s lead from %s", data.SiteName, data.Name),
		TextBody: buildLeadText(data),
		HTMLBody: buildLeadHTML(data),
	}
}

func buildLeadText(data LeadEmailData) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("A new lead was submitted on %s.\n\n", data.SiteName))
	buf.WriteString(fmt.Sprintf("Name:  %s\n", data.Name))
	buf.WriteString(fmt.Sprintf("Phone: %s\n", data.Phone))
	buf.WriteString(fmt.Sprintf("Email: %s\n\n", data.Email))
	buf.WriteString(fmt.Sprintf("Reference: %s\n", data.Reference))
	return buf.String()
}

var leadHTML = template.Must(template.New("lead").Parse(leadHTMLTemplate))

func buildLeadHTML(data LeadEmailData) string {
	var buf bytes.Buffer
	_ = leadHTML.Execute(&buf, data)
	return buf.String()
}

const leadHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New lead</title>
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f3f4f6;">
  <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="background-color: #f3f4f6;">
    <tr>
      <td align="center" style="padding: 40px 20px;">
        <table role="presentation" width="100%" cellspacing="0" cellpadding="0" style="max-width: 480px; background-color: #ffffff; border-radius: 8px;">
          <tr>
            <td style="padding: 32px 32px 24px; text-align: center; border-bottom: 1px solid #e5e7eb;">
              <h1 style="margin: 0; font-size: 24px; font-weight: 600; color: #0f172a;">{{.SiteName}}</h1>
            </td>
          </tr>
          <tr>
            <td style="padding: 32px; font-size: 16px; color: #374151; line-height: 1.5;">
              <p style="margin: 0 0 16px;">A new lead was submitted.</p>
              <p style="margin: 0;"><strong>Name:</strong> {{.Name}}</p>
              <p style="margin: 0;"><strong>Phone:</strong> {{.Phone}}</p>
              <p style="margin: 0 0 16px;"><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
              <p style="margin: 0; font-size: 12px; color: #9ca3af;">Reference {{.Reference}}</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`
