package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func JoinView(code, name string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, _ = io.WriteString(w, `<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>SchockStemmer</title>
    <link rel="stylesheet" href="/static/styles.css"/>
  </head>
  <body>
    <main class="shell">
      <header class="hero">
        <span class="tag">SchockStemmer</span>
        <h1>Join a game</h1>
      </header>
      <section class="panel">
        <form id="joinForm" class="join-form">
          <input name="code" placeholder="Join code" autocomplete="off" value="`)
		_, _ = io.WriteString(w, templ.EscapeString(code))
		_, _ = io.WriteString(w, `" required/>
          <input name="name" placeholder="Display name" autocomplete="name" value="`)
		_, _ = io.WriteString(w, templ.EscapeString(name))
		_, _ = io.WriteString(w, `" required/>
          <button type="submit" class="primary">Join</button>
        </form>
        <div id="joinResult" class="result"></div>
      </section>
    </main>

    <script>
      const joinForm = document.getElementById("joinForm");
      const joinResult = document.getElementById("joinResult");
      const params = new URLSearchParams(window.location.search);
      if (params.get("name")) {
        joinForm.elements.name.value = params.get("name");
      }

      joinForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        joinResult.textContent = "Joining...";
        const form = new FormData(joinForm);
        const lookupRes = await fetch("/api/games/by-code/" + encodeURIComponent(form.get("code")));
        const lookup = await lookupRes.json();
        if (!lookupRes.ok) {
          joinResult.textContent = lookup.error || "Game not found.";
          return;
        }
        const res = await fetch("/api/games/" + lookup.game_id + "/join", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ name: form.get("name") }),
        });
        const data = await res.json();
        if (!res.ok || !data.success) {
          joinResult.textContent = data.error || "Failed to join.";
          return;
        }
        window.location.href = "/play/" + data.game_id + "/" + data.player_id;
      });
    </script>
  </body>
</html>`)
		return nil
	})
}
