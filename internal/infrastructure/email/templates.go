package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var templates = template.Must(template.New("email").Parse(`
{{define "purchase_confirmation"}}<html><body style="font-family:sans-serif">
<h2>Thanks for your purchase{{if .Name}}, {{.Name}}{{end}}!</h2>
<p>You now have access to:</p>
<ul>{{range .Courses}}<li><a href="{{$.PortalURL}}/learn/{{.Slug}}">{{.Title}}</a></li>{{end}}</ul>
<p>Total charged: {{.Amount}} {{.Currency}}</p>
<p>Sign in at <a href="{{.PortalURL}}/login">{{.PortalURL}}/login</a> with this email address to start learning.</p>
</body></html>{{end}}

{{define "magic_link"}}<html><body style="font-family:sans-serif">
<h2>Your sign-in link</h2>
<p><a href="{{.Link}}">Click here to sign in</a>. The link expires in {{.ExpiresIn}} and can be used once.</p>
<p>If you did not request this email you can ignore it.</p>
</body></html>{{end}}

{{define "audit_request"}}<html><body style="font-family:sans-serif">
<h2>New audit request</h2>
<p><strong>Name:</strong> {{.Name}}<br>
<strong>Email:</strong> {{.Email}}<br>
<strong>Website:</strong> {{.Website}}</p>
<p>{{.Message}}</p>
</body></html>{{end}}
`))

type CourseLink struct {
	Title string
	Slug  string
}

type PurchaseConfirmationData struct {
	Name      string
	Courses   []CourseLink
	Amount    string
	Currency  string
	PortalURL string
}

type MagicLinkData struct {
	Link      string
	ExpiresIn string
}

type AuditRequestData struct {
	Name    string
	Email   string
	Website string
	Message string
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func RenderPurchaseConfirmation(data PurchaseConfirmationData) (subject, html string, err error) {
	html, err = render("purchase_confirmation", data)
	return "Your course access is ready", html, err
}

func RenderMagicLink(data MagicLinkData) (subject, html string, err error) {
	html, err = render("magic_link", data)
	return "Your sign-in link", html, err
}

func RenderAuditRequest(data AuditRequestData) (subject, html string, err error) {
	html, err = render("audit_request", data)
	return fmt.Sprintf("Audit request from %s", data.Name), html, err
}
