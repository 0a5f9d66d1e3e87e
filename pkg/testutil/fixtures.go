package testutil

import (
	"testing/fstest"

	"github.com/5minds/create-processcube-app/pkg/templates"
)

// Fixture fragments, exported so tests can compare merged output against them
const (
	AuthorityEnv = "AUTH_URL=http://authority:11560\nAUTH_SECRET=s3cret\n"
	EngineEnv    = "ENGINE_URL=http://localhost:8000\n"

	AuthorityCompose = "version: '3'\nservices:\n  authority:\n    image: authority:latest\n"
	EngineCompose    = "# engine\nservices:\n  engine:\n    image: engine:latest\n"

	AuthorityConfig = `{
  "issuerUrl": "http://authority:11560",
  "port": 11560,
  "clients": [{"clientId": "web", "scopes": ["openid"]}],
  "engines": [{"clientId": "engine", "audience": "engine", "scopes": ["engine_read"]}]
}`
	EngineConfig = `{
  "httpServer": {"port": 8000},
  "logging": {"level": "info"},
  "iam": {"baseUrl": "http://authority:11560", "clientId": "engine"}
}`
)

// FixtureStore returns a small template store with both families in both
// modes and complete authority and engine bundles.
func FixtureStore() *templates.Store {
	m := fstest.MapFS{}

	tsconfig := "{\n  \"compilerOptions\": {\n    \"paths\": {\n      \"@/*\": [\"./*\"]\n    }\n  }\n}\n"
	tailwind := "module.exports = {\n  content: [\n    './pages/**/*.{js,ts,jsx,tsx,mdx}',\n    './app/**/*.{js,ts,jsx,tsx,mdx}',\n  ],\n}\n"

	for _, mode := range []string{"ts", "js"} {
		cfg := "tsconfig.json"
		ext := "tsx"
		if mode == "js" {
			cfg = "jsconfig.json"
			ext = "js"
		}

		app := "app/" + mode + "/"
		m[app+cfg] = file(tsconfig)
		m[app+"gitignore"] = file("/node_modules\n")
		m[app+"eslintrc.json"] = file("{}\n")
		m[app+"README-template.md"] = file("# readme\n")
		m[app+"tailwind.config.js"] = file(tailwind)
		m[app+"postcss.config.js"] = file("module.exports = {}\n")
		m[app+"app/page."+ext] = file("import { X } from '@/app/x'\n// edit app/page." + ext + "\n")
		m[app+"app/layout."+ext] = file("import '@/app/globals.css'\n")
		m[app+"app/globals.css"] = file("body {}\n")
		m[app+"public/logo.svg"] = file("<svg/>\n")

		pages := "default/" + mode + "/"
		m[pages+cfg] = file(tsconfig)
		m[pages+"gitignore"] = file("/node_modules\n")
		m[pages+"eslintrc.json"] = file("{}\n")
		m[pages+"README-template.md"] = file("# readme\n")
		m[pages+"tailwind.config.js"] = file(tailwind)
		m[pages+"postcss.config.js"] = file("module.exports = {}\n")
		m[pages+"pages/index."+ext] = file("import s from '@/styles/Home.module.css'\n// edit pages/index." + ext + "\n")
		m[pages+"styles/globals.css"] = file("body {}\n")
		m[pages+"styles/Home.module.css"] = file(".main {}\n")
	}

	m["authority/.env"] = file(AuthorityEnv)
	m["authority/docker-compose.yml"] = file(AuthorityCompose)
	m["authority/config.json"] = file(AuthorityConfig)
	m["authority/middleware.tsx"] = file("export { default } from 'next-auth/middleware'\n")
	m["authority/route.ts"] = file("export const handler = 1\n")
	m["authority/users.json"] = file("[]\n")

	m["engine/.env"] = file(EngineEnv)
	m["engine/docker-compose.yml"] = file(EngineCompose)
	m["engine/config.json"] = file(EngineConfig)

	return templates.New(m)
}

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}
