package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/fourpics/internal/model"
)

// HomeData is the data for the home page
type HomeData struct {
	PageData
	Next  string        // Where to go after signing in
	Games []*model.Game // The signed-in player's games, newest first
}

// Home renders the sign-in form, or the new game button and game list
func Home(data HomeData) templ.Component {
	return Layout(data.PageData, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &writer{w: w}
		if data.Player == nil {
			hw.raw(`<section class="welcome"><h1>Four pics, one word</h1>`)
			hw.raw(`<p>Guess the word the four photos have in common.</p>`)
			hw.raw(`<form method="post" action="/auth/guest" id="guest-form">`)
			hw.raw(`<label for="display_name">Your name</label>`)
			hw.raw(`<input type="text" id="display_name" name="display_name" maxlength="40" required>`)
			if data.Next != "" {
				hw.raw(`<input type="hidden" name="next" value="`)
				hw.text(data.Next)
				hw.raw(`">`)
			}
			hw.raw(`<button type="submit">Play as guest</button></form>`)

			hw.raw(`<details><summary>Sign in</summary><form method="post" action="/auth/login" id="login-form">`)
			hw.raw(`<input type="text" name="username" placeholder="Username" autocomplete="username" required>`)
			hw.raw(`<input type="password" name="password" placeholder="Password" autocomplete="current-password" required>`)
			if data.Next != "" {
				hw.raw(`<input type="hidden" name="next" value="`)
				hw.text(data.Next)
				hw.raw(`">`)
			}
			hw.raw(`<button type="submit">Sign in</button></form></details>`)

			hw.raw(`<details><summary>Create an account</summary><form method="post" action="/auth/register" id="register-form">`)
			hw.raw(`<input type="text" name="username" placeholder="Username" autocomplete="username" required>`)
			hw.raw(`<input type="text" name="display_name" placeholder="Display name" maxlength="40">`)
			hw.raw(`<input type="password" name="password" placeholder="Password" autocomplete="new-password" required>`)
			hw.raw(`<input type="password" name="password_confirm" placeholder="Confirm password" autocomplete="new-password" required>`)
			hw.raw(`<button type="submit">Register</button></form></details></section>`)
			return hw.err
		}

		hw.raw(`<section class="new-game"><form method="post" action="/play" id="new-game-form">`)
		hw.raw(`<button type="submit">New game</button></form>`)
		if len(data.Games) > 0 {
			hw.raw(`<h2>Your games</h2><ul class="games">`)
			for _, g := range data.Games {
				hw.raw(`<li><a href="/play/`)
				hw.text(string(g.ID))
				hw.raw(`">`)
				hw.text(string(g.ID))
				hw.raw(`</a> <span class="status status-`)
				hw.text(string(g.Status))
				hw.raw(`">`)
				hw.text(string(g.Status))
				hw.raw(`</span> <span class="solved">`)
				hw.text(strconv.Itoa(g.RoundsSolved) + "/" + strconv.Itoa(g.RoundsPlayed) + " solved")
				hw.raw(`</span></li>`)
			}
			hw.raw(`</ul>`)
		}
		hw.raw(`</section>`)
		return hw.err
	}))
}
