package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ShareLinkData 分享邮件模板参数
type ShareLinkData struct {
	OwnerName  string
	OwnerEmail string
	FileName   string
	ShareURL   string
	Permanent  bool
}

// WelcomeData 注册欢迎邮件模板参数
type WelcomeData struct {
	UserName     string
	DashboardURL string
}

// ShareLinkSubject 分享邮件标题
func ShareLinkSubject(ownerName, fileName string) string {
	return fmt.Sprintf("%s shared %q with you", ownerName, fileName)
}

func RenderShareLink(data ShareLinkData) (string, error) {
	return render("share_link.html", data)
}

func RenderWelcome(data WelcomeData) (string, error) {
	return render("welcome.html", data)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("渲染邮件模板 %s 失败: %w", name, err)
	}
	return buf.String(), nil
}
