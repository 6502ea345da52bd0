// Package views renders the server-side HTML pages of the play site.
package views

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/fourpics/internal/model"
)

// FlashMessage is a one-shot notice shown on the next page
type FlashMessage struct {
	Type    string // success, error or info
	Message string
}

// PageData holds what every page layout needs
type PageData struct {
	Title  string
	Player *model.Player
	Flash  *FlashMessage
}

// writer accumulates the first write error so components can emit markup
// without checking every call
type writer struct {
	w   io.Writer
	err error
}

func (hw *writer) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// text writes s HTML-escaped
func (hw *writer) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// url writes u as an attribute value, replacing unsafe schemes
func (hw *writer) url(u string) {
	hw.text(string(templ.URL(u)))
}

func (hw *writer) rawf(format string, args ...any) {
	hw.raw(fmt.Sprintf(format, args...))
}

// Layout wraps body in the page chrome: head, nav and flash notice
func Layout(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &writer{w: w}
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>`)
		hw.text(data.Title)
		hw.raw(` | Four Pics</title><style>`)
		hw.raw(stylesheet)
		hw.raw(`</style></head><body>`)

		hw.raw(`<nav><a href="/" class="brand">Four Pics</a>`)
		if data.Player != nil {
			hw.raw(`<span class="player-name">`)
			hw.text(data.Player.DisplayName)
			hw.raw(`</span><form method="post" action="/auth/logout" class="inline"><button type="submit">Log out</button></form>`)
		}
		hw.raw(`</nav>`)

		if data.Flash != nil {
			hw.rawf(`<div class="flash flash-%s" role="status">`, templ.EscapeString(data.Flash.Type))
			hw.text(data.Flash.Message)
			hw.raw(`</div>`)
		}

		hw.raw(`<main>`)
		if hw.err != nil {
			return hw.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		hw.raw(`</main></body></html>`)
		return hw.err
	})
}

// ErrorPage renders a bare message page with a link home
func ErrorPage(data PageData, message string) templ.Component {
	return Layout(data, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &writer{w: w}
		hw.raw(`<section class="error-page"><h1>`)
		hw.text(data.Title)
		hw.raw(`</h1><p>`)
		hw.text(message)
		hw.raw(`</p><p><a href="/">Return to home</a></p></section>`)
		return hw.err
	}))
}

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;background:#f4f1ea;color:#222}
nav{display:flex;gap:1rem;align-items:center;padding:.75rem 1rem;background:#2d3a4a;color:#fff}
nav a{color:#fff;text-decoration:none;font-weight:600}
.player-name{margin-left:auto}
main{max-width:420px;margin:1rem auto;padding:0 1rem}
.inline{display:inline}
.flash{max-width:420px;margin:1rem auto;padding:.5rem 1rem;border-radius:4px}
.flash-success{background:#d8f0d2}.flash-error{background:#f6d3d3}.flash-info{background:#dde7f4}
.photos{display:grid;grid-template-columns:1fr 1fr;gap:6px}
.photos img{width:100%;aspect-ratio:1;object-fit:cover;border-radius:4px;background:#ccc}
.slots,.tiles{display:flex;flex-wrap:wrap;justify-content:center;gap:10px;margin:1rem 0}
.slot,.tile{width:40px;height:40px;font-size:1.4rem;font-weight:700;border-radius:4px}
.slot{border:2px solid #2d3a4a;background:#fff}
.slot.correct{border-color:#2f8f3a}.slot.incorrect{border-color:#c0392b}
.tile{border:none;background:#f0b429;cursor:pointer}
.tile.used{visibility:hidden}
.result{text-align:center;font-weight:600}
.games li{margin:.25rem 0}
`
