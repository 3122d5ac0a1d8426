package generator

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/ironclad/converge/pkg/types"
)

// ShellGenerator renders POSIX shell scripts, one pair of templates
// per resource kind.
type ShellGenerator struct{}

// NewShellGenerator returns the default script generator.
func NewShellGenerator() *ShellGenerator {
	return &ShellGenerator{}
}

type kindTemplates struct {
	apply      *template.Template
	stateQuery *template.Template
}

var templatesByKind = map[types.ResourceKind]kindTemplates{
	types.KindPackage: {
		apply:      mustParse("package-apply", packageApplyTmpl),
		stateQuery: mustParse("package-query", packageQueryTmpl),
	},
	types.KindFile: {
		apply:      mustParse("file-apply", fileApplyTmpl),
		stateQuery: mustParse("file-query", fileQueryTmpl),
	},
	types.KindService: {
		apply:      mustParse("service-apply", serviceApplyTmpl),
		stateQuery: mustParse("service-query", serviceQueryTmpl),
	},
	types.KindMount: {
		apply:      mustParse("mount-apply", mountApplyTmpl),
		stateQuery: mustParse("mount-query", mountQueryTmpl),
	},
	types.KindUser: {
		apply:      mustParse("user-apply", userApplyTmpl),
		stateQuery: mustParse("user-query", userQueryTmpl),
	},
	types.KindDocker: {
		apply:      mustParse("docker-apply", dockerApplyTmpl),
		stateQuery: mustParse("docker-query", dockerQueryTmpl),
	},
	types.KindPepita: {
		apply:      mustParse("pepita-apply", pepitaApplyTmpl),
		stateQuery: mustParse("pepita-query", pepitaQueryTmpl),
	},
	types.KindNetwork: {
		apply:      mustParse("network-apply", networkApplyTmpl),
		stateQuery: mustParse("network-query", networkQueryTmpl),
	},
	types.KindCron: {
		apply:      mustParse("cron-apply", cronApplyTmpl),
		stateQuery: mustParse("cron-query", cronQueryTmpl),
	},
}

func mustParse(name, body string) *template.Template {
	return template.Must(template.New(name).Parse(body))
}

func (g *ShellGenerator) ApplyScript(r types.ResolvedResource) (string, error) {
	return render(r, func(t kindTemplates) *template.Template { return t.apply })
}

func (g *ShellGenerator) StateQueryScript(r types.ResolvedResource) (string, error) {
	return render(r, func(t kindTemplates) *template.Template { return t.stateQuery })
}

func render(r types.ResolvedResource, pick func(kindTemplates) *template.Template) (string, error) {
	kt, ok := templatesByKind[r.Resource.Type]
	if !ok {
		return "", fmt.Errorf("generator: no script template for resource kind %q", r.Resource.Type)
	}
	var buf bytes.Buffer
	if err := pick(kt).Execute(&buf, r.Resource); err != nil {
		return "", fmt.Errorf("generator: render %s script for %q: %w", r.Resource.Type, r.ID, err)
	}
	return buf.String(), nil
}

const packageApplyTmpl = `#!/bin/sh
set -e
{{- if eq .State "absent"}}
{{.Provider}} remove -y {{range .Packages}}{{.}} {{end}}
{{- else}}
{{.Provider}} install -y {{range .Packages}}{{.}} {{end}}
{{- end}}
`

const packageQueryTmpl = `#!/bin/sh
{{.Provider}} list --installed {{range .Packages}}{{.}} {{end}}2>/dev/null
`

const fileApplyTmpl = `#!/bin/sh
set -e
{{- if eq .State "absent"}}
rm -f {{.Path}}
{{- else if eq .State "directory"}}
mkdir -p {{.Path}}
{{- else if eq .State "symlink"}}
ln -sfn {{.Source}} {{.Path}}
{{- else}}
cat > {{.Path}} <<'CONVERGE_EOF'
{{.Content}}
CONVERGE_EOF
{{- end}}
{{- if .Owner}}
chown {{.Owner}}{{if .Group}}:{{.Group}}{{end}} {{.Path}}
{{- end}}
{{- if .Mode}}
chmod {{.Mode}} {{.Path}}
{{- end}}
`

const fileQueryTmpl = `#!/bin/sh
cat {{.Path}} 2>/dev/null
`

const serviceApplyTmpl = `#!/bin/sh
set -e
{{- if eq .State "stopped"}}
systemctl stop {{.Name}}
{{- else}}
systemctl enable --now {{.Name}}
{{- end}}
`

const serviceQueryTmpl = `#!/bin/sh
systemctl is-active {{.Name}} 2>/dev/null
`

const mountApplyTmpl = `#!/bin/sh
set -e
{{- if eq .State "absent"}}
umount {{.Path}}
{{- else}}
mkdir -p {{.Path}}
mount{{range $k, $v := .Options}} -o {{$k}}={{$v}}{{end}} {{.Source}} {{.Path}}
{{- end}}
`

const mountQueryTmpl = `#!/bin/sh
mount | grep -F ' {{.Path}} ' 2>/dev/null
`

const userApplyTmpl = `#!/bin/sh
set -e
{{- if eq .State "absent"}}
userdel {{.Name}}
{{- else}}
id {{.Name}} >/dev/null 2>&1 || useradd {{.Name}}
{{- end}}
`

const userQueryTmpl = `#!/bin/sh
id {{.Name}} 2>/dev/null
`

const dockerApplyTmpl = `#!/bin/sh
set -e
{{- if eq .State "absent"}}
docker rm -f {{.Name}}
{{- else}}
docker run -d --name {{.Name}} {{.Source}}
{{- end}}
`

const dockerQueryTmpl = `#!/bin/sh
docker inspect -f '{{"{{"}}.State.Status{{"}}"}}' {{.Name}} 2>/dev/null
`

const pepitaApplyTmpl = `#!/bin/sh
set -e
pepita apply --unit {{.Name}} --source {{.Source}}
`

const pepitaQueryTmpl = `#!/bin/sh
pepita status --unit {{.Name}} 2>/dev/null
`

const networkApplyTmpl = `#!/bin/sh
set -e
ip link show {{.Name}} >/dev/null 2>&1 || ip link add {{.Name}} type bridge
{{- if .Target}}
ip addr replace {{.Target}} dev {{.Name}}
{{- end}}
`

const networkQueryTmpl = `#!/bin/sh
ip addr show {{.Name}} 2>/dev/null
`

const cronApplyTmpl = `#!/bin/sh
set -e
(crontab -l 2>/dev/null | grep -vF {{.Name}}; echo "{{.Content}} # {{.Name}}") | crontab -
`

const cronQueryTmpl = `#!/bin/sh
crontab -l 2>/dev/null | grep -F {{.Name}}
`
