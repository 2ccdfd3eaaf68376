package seo

import (
	"bytes"
	"fmt"
	"html/template"
)

var verificationMeta = map[string]string{
	"google": "google-site-verification",
	"yandex": "yandex-verification",
}

var headTmpl = template.Must(template.New("head").Funcs(template.FuncMap{
	"verificationName": func(engine string) string {
		if n, ok := verificationMeta[engine]; ok {
			return n
		}
		return engine + "-verification"
	},
}).Parse(`<meta charset="utf-8">
<meta http-equiv="x-ua-compatible" content="ie=edge">
<meta name="viewport" content="width=device-width, initial-scale=1, maximum-scale=5, viewport-fit=cover">
<title>{{.DocTitle}}</title>
<meta name="description" content="{{.M.Description}}">
<link rel="canonical" href="{{.M.Canonical}}">
{{- if .M.Manifest}}
<link rel="manifest" href="{{.M.Manifest}}">
{{- end}}
{{- range .M.Icons}}
<link rel="{{.Rel}}" href="{{.URL}}" sizes="{{.Sizes}}" type="{{.Type}}">
{{- end}}
<meta name="creator" content="{{.M.Creator}}">
<meta name="publisher" content="{{.M.Publisher}}">
<meta name="robots" content="{{.M.Robots.Content}}">
<meta property="og:type" content="{{.M.OpenGraph.Type}}">
<meta property="og:title" content="{{.M.OpenGraph.Title}}">
<meta property="og:description" content="{{.M.OpenGraph.Description}}">
<meta property="og:url" content="{{.M.OpenGraph.URL}}">
<meta property="og:site_name" content="{{.M.OpenGraph.SiteName}}">
<meta property="og:locale" content="{{.M.OpenGraph.Locale}}">
{{- range .M.OpenGraph.Images}}
<meta property="og:image" content="{{.URL}}">
<meta property="og:image:width" content="{{.Width}}">
<meta property="og:image:height" content="{{.Height}}">
<meta property="og:image:alt" content="{{.Alt}}">
{{- end}}
<meta name="twitter:card" content="{{.M.Twitter.Card}}">
<meta name="twitter:title" content="{{.M.Twitter.Title}}">
<meta name="twitter:description" content="{{.M.Twitter.Description}}">
{{- range .M.Twitter.Images}}
<meta name="twitter:image" content="{{.}}">
{{- end}}
{{- if .M.Twitter.Creator}}
<meta name="twitter:creator" content="{{.M.Twitter.Creator}}">
{{- end}}
{{- range $engine, $token := .M.Verification}}
<meta name="{{verificationName $engine}}" content="{{$token}}">
{{- end}}
<meta name="mobile-web-app-capable" content="yes">
<meta name="apple-mobile-web-app-capable" content="yes">
<meta name="apple-mobile-web-app-status-bar-style" content="black-translucent">
<meta name="apple-mobile-web-app-title" content="{{.M.AppName}}">
<meta name="application-name" content="{{.M.AppName}}">
{{- if .M.ThemeColor}}
<meta name="msapplication-TileColor" content="{{.M.ThemeColor}}">
<meta name="theme-color" content="{{.M.ThemeColor}}">
{{- end}}
`))

// HeadHTML renders m as the contents of <head>.
func HeadHTML(m Metadata, siteName string) (template.HTML, error) {
	var buf bytes.Buffer
	data := struct {
		M        Metadata
		DocTitle string
	}{M: m, DocTitle: m.DocumentTitle(siteName)}
	if err := headTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render head: %w", err)
	}
	return template.HTML(buf.String()), nil
}
