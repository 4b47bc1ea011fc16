package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func Home(flash, name string) templ.Component {
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
        <h1>Vote who stays safe. The loser drinks.</h1>
        <p>Host a session in seconds or jump in with a join code.</p>
      </header>`)
		if flash != "" {
			_, _ = io.WriteString(w, `<div class="flash">`)
			_, _ = io.WriteString(w, templ.EscapeString(flash))
			_, _ = io.WriteString(w, `</div>`)
		}
		_, _ = io.WriteString(w, `
      <section class="panel">
        <div>
          <h2>Host a game</h2>
          <p>Pick a display name, get a join code, share it with your table.</p>
        </div>
        <form id="hostForm" class="host-form">
          <input name="name" placeholder="Your name" autocomplete="name" value="`)
		_, _ = io.WriteString(w, templ.EscapeString(name))
		_, _ = io.WriteString(w, `" required/>
          <button type="submit" class="primary">Create game</button>
        </form>
        <div id="hostResult" class="result"></div>
      </section>

      <section class="panel">
        <div>
          <h2>Join a game</h2>
          <p>Enter the join code from the host and your display name.</p>
        </div>
        <form id="joinForm" class="join-form">
          <input name="code" placeholder="Join code" autocomplete="off" required/>
          <input name="name" placeholder="Display name" autocomplete="name" required/>
          <button type="submit" class="secondary">Join game</button>
        </form>
        <div id="joinResult" class="result"></div>
      </section>
    </main>

    <script>
      const hostForm = document.getElementById("hostForm");
      const hostResult = document.getElementById("hostResult");
      const joinForm = document.getElementById("joinForm");
      const joinResult = document.getElementById("joinResult");

      hostForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        hostResult.textContent = "Creating game...";
        const name = new FormData(hostForm).get("name");
        const identityRes = await fetch("/api/identity", {
          method: "POST",
          headers: { "Content-Type": "application/json" },
          body: JSON.stringify({ name }),
        });
        const identity = await identityRes.json();
        if (!identityRes.ok) {
          hostResult.textContent = identity.error || "Failed to create identity.";
          return;
        }
        localStorage.setItem("ss_token", identity.token);
        const res = await fetch("/api/games", {
          method: "POST",
          headers: { Authorization: "Bearer " + identity.token },
        });
        const data = await res.json();
        if (!res.ok) {
          hostResult.textContent = data.error || "Failed to create game.";
          return;
        }
        window.location.href = "/play/" + data.game_id + "/" + data.player_id;
      });

      joinForm.addEventListener("submit", async (event) => {
        event.preventDefault();
        const form = new FormData(joinForm);
        window.location.href = "/join/" + encodeURIComponent(form.get("code")) +
          "?name=" + encodeURIComponent(form.get("name"));
      });
    </script>
  </body>
</html>`)
		return nil
	})
}
