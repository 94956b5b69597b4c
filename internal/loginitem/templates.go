package loginitem

import (
	"bytes"
	"encoding/xml"
	"strings"
	"text/template"
)

// Entry templates. Each format escapes values with its own helper since
// none of them is plain text.
const (
	launchAgentTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{xml .ID}}</string>
	<key>ProgramArguments</key>
	<array>
{{- range .Args}}
		<string>{{xml .}}</string>
{{- end}}
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>ProcessType</key>
	<string>Interactive</string>
</dict>
</plist>
`

	desktopEntryTemplate = `[Desktop Entry]
Type=Application
Name={{desktopString .Name}}
Exec={{desktopExec .Args}}
X-GNOME-Autostart-enabled=true
NoDisplay=true
`

	startupScriptTemplate = `@echo off
start "" {{batchArgs .Args}}
`
)

var templateFuncs = template.FuncMap{
	"xml":           xmlEscape,
	"desktopString": desktopString,
	"desktopExec":   desktopExec,
	"batchArgs":     batchArgs,
}

func render(tmpl string, item Item) ([]byte, error) {
	t, err := template.New("entry").Funcs(templateFuncs).Parse(tmpl)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, item); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xmlEscape(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Desktop Entry escapes for string values.
var desktopStringReplacer = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func desktopString(s string) string {
	return desktopStringReplacer.Replace(s)
}

// Characters that must be backslash-escaped inside a quoted Exec argument.
var execQuoteReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"`", "\\`",
	`$`, `\$`,
)

// desktopExec renders an Exec value: every argument quoted, then the string
// escapes applied on top, then literal percent signs doubled so they are not
// read as field codes.
func desktopExec(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = `"` + execQuoteReplacer.Replace(a) + `"`
	}
	line := desktopString(strings.Join(quoted, " "))
	return strings.ReplaceAll(line, "%", "%%")
}

// batchArgs quotes arguments for a .cmd script. Percent signs are doubled
// so cmd.exe does not expand them as variables.
func batchArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = `"` + strings.ReplaceAll(a, "%", "%%") + `"`
	}
	return strings.Join(quoted, " ")
}
