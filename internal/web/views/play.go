package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/mcoot/fourpics/internal/model"
)

// PlayData is the data for the play page
type PlayData struct {
	PageData
	Game *model.Game
}

// Play renders the photos, the answer row and the tile pool of a game.
// Every control is a plain form; the script adds dragging and live reload.
func Play(data PlayData) templ.Component {
	return Layout(data.PageData, templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &writer{w: w}
		g := data.Game
		base := "/play/" + templ.EscapeString(string(g.ID))

		hw.rawf(`<section class="play" id="play" data-game-id="%s" data-status="%s">`,
			templ.EscapeString(string(g.ID)), templ.EscapeString(string(g.Status)))
		hw.raw(`<header class="score">Round `)
		hw.text(strconv.Itoa(g.RoundsPlayed))
		hw.raw(` | Solved `)
		hw.text(strconv.Itoa(g.RoundsSolved))
		hw.raw(`</header>`)

		if g.Status == model.GameStatusFailed {
			hw.raw(`<div class="round-error" id="round-error"><p>Could not load a round: `)
			hw.text(g.LastError)
			hw.raw(`</p>`)
			hw.raw(`<form method="post" action="` + base + `/next"><button type="submit">Try again</button></form></div>`)
		}

		if !g.HasRound() {
			hw.raw(`</section>`)
			return hw.err
		}

		puzzle := g.Puzzle
		resultClass := ""
		if puzzle.IsFull() {
			resultClass = " " + string(puzzle.Result)
		}

		hw.raw(`<div class="photos" id="photos">`)
		for _, p := range g.Round.Photos {
			hw.raw(`<img src="`)
			hw.url(p.URL)
			hw.raw(`" alt="`)
			hw.text(p.Alt)
			hw.raw(`" loading="lazy">`)
		}
		hw.raw(`</div>`)

		solved := puzzle.Result == model.ValidationCorrect
		hw.raw(`<div class="slots" id="slots">`)
		for i, s := range puzzle.Slots {
			hw.raw(`<form method="post" action="` + base + `/return" class="inline">`)
			hw.rawf(`<input type="hidden" name="slot" value="%d">`, i)
			hw.rawf(`<button type="submit" class="slot%s" data-slot="%d"`, resultClass, i)
			if !s.Filled {
				hw.raw(` disabled`)
			}
			hw.raw(`>`)
			if s.Filled {
				hw.text(string(s.Letter))
			}
			hw.raw(`</button></form>`)
		}
		hw.raw(`</div>`)

		hw.raw(`<div class="tiles" id="tiles">`)
		for i, t := range puzzle.Tiles {
			hw.raw(`<form method="post" action="` + base + `/drop" class="inline">`)
			hw.rawf(`<input type="hidden" name="tile" value="%d">`, i)
			if t.Used {
				hw.rawf(`<button type="submit" class="tile used" data-tile="%d" disabled>`, i)
			} else {
				hw.rawf(`<button type="submit" class="tile" data-tile="%d"`, i)
				if solved {
					hw.raw(` disabled`)
				}
				hw.raw(`>`)
			}
			hw.text(string(t.Letter))
			hw.raw(`</button></form>`)
		}
		hw.raw(`</div>`)

		hw.raw(`<div class="result" id="result">`)
		switch puzzle.Result {
		case model.ValidationCorrect:
			hw.raw(`<p>Solved! The word was `)
			hw.text(g.Round.Word)
			hw.raw(`.</p><form method="post" action="` + base + `/next"><button type="submit">Next round</button></form>`)
		case model.ValidationIncorrect:
			hw.raw(`<p>Not quite. Tap a letter to take it back.</p>`)
		}
		hw.raw(`</div>`)

		hw.raw(`<form method="post" action="` + base + `/reset" id="reset-form"><button type="submit">Reset</button></form>`)
		hw.raw(`</section><script>`)
		hw.raw(playScript)
		hw.raw(`</script>`)
		return hw.err
	}))
}

// playScript drags tiles onto measured slots through the JSON API and reloads
// whenever the game's event stream reports a change
const playScript = `
(function(){
  var play = document.getElementById("play");
  if (!play) return;
  var id = play.dataset.gameId;
  var api = "/api/v1/games/" + encodeURIComponent(id);

  var source = new EventSource(api + "/events");
  ["round_started","letter_placed","letter_returned","round_reset","round_solved","round_incorrect","round_failed"].forEach(function(name){
    source.addEventListener(name, function(){ location.reload(); });
  });

  function rects(){
    return Array.prototype.map.call(document.querySelectorAll(".slot"), function(el){
      var r = el.getBoundingClientRect();
      return {x: r.left + scrollX, y: r.top + scrollY, width: r.width, height: r.height};
    });
  }

  document.querySelectorAll(".tile:not([disabled])").forEach(function(tile){
    var start = null, moved = false;
    tile.addEventListener("pointerdown", function(e){
      start = {x: e.pageX, y: e.pageY}; moved = false;
      tile.setPointerCapture(e.pointerId);
    });
    tile.addEventListener("pointermove", function(e){
      if (!start) return;
      var dx = e.pageX - start.x, dy = e.pageY - start.y;
      if (Math.abs(dx) + Math.abs(dy) > 5) moved = true;
      tile.style.transform = "translate(" + dx + "px," + dy + "px)";
    });
    tile.addEventListener("pointerup", function(){
      if (!start) return;
      start = null;
      if (!moved) { tile.style.transform = ""; return; }
      var r = tile.getBoundingClientRect();
      fetch(api + "/drop", {
        method: "POST",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify({
          tile: Number(tile.dataset.tile),
          x: r.left + scrollX + r.width / 2,
          y: r.top + scrollY + r.height / 2,
          slots: rects()
        })
      }).finally(function(){ location.reload(); });
    });
    tile.addEventListener("click", function(e){ if (moved) e.preventDefault(); });
  });
})();
`
