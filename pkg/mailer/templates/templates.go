package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Render produces subject, text and HTML bodies for a named template.
// Data keys used: Name, Link, AppName.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	switch name {
	case "verify_email":
		subject = "Confirme seu email"
		text = fmt.Sprintf("Olá %v, confirme seu email: %v", data["Name"], data["Link"])
		html, err = render(verifyEmailHTML, data)
	case "reset_password":
		subject = "Recuperação de senha"
		text = fmt.Sprintf("Olá %v, redefina sua senha: %v", data["Name"], data["Link"])
		html, err = render(resetPasswordHTML, data)
	default:
		err = fmt.Errorf("unknown email template %q", name)
	}
	return subject, text, html, err
}

func render(tpl *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var verifyEmailHTML = template.Must(template.New("verify_email").Parse(`
<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>{{.AppName}}</h2>
  <p>Olá {{.Name}},</p>
  <p>Confirme seu email para acessar sua conta:</p>
  <p><a href="{{.Link}}" style="background:#ff6b35;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none">Confirmar email</a></p>
  <p>Se você não criou esta conta, ignore esta mensagem.</p>
</div>`))

var resetPasswordHTML = template.Must(template.New("reset_password").Parse(`
<div style="font-family:sans-serif;max-width:480px;margin:0 auto">
  <h2>{{.AppName}}</h2>
  <p>Olá {{.Name}},</p>
  <p>Recebemos um pedido para redefinir sua senha:</p>
  <p><a href="{{.Link}}" style="background:#ff6b35;color:#fff;padding:10px 18px;border-radius:6px;text-decoration:none">Redefinir senha</a></p>
  <p>O link expira em 30 minutos. Se não foi você, ignore esta mensagem.</p>
</div>`))
