package web

import "embed"

// Templates embeds the page, layout and partial templates.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static embeds stylesheets and scripts served under /static.
//
//go:embed static/**/*
var Static embed.FS
