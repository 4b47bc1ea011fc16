package web

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

func PlayerView(gameID, playerID uint, name string) templ.Component {
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
        <h1>Hey `)
		_, _ = io.WriteString(w, templ.EscapeString(name))
		_, _ = io.WriteString(w, `</h1>
        <p id="statusLine">Connecting...</p>
      </header>
      <section class="panel" id="lobbyPanel" hidden>
        <h2>Lobby</h2>
        <p>Share the join code: <strong id="joinCode"></strong></p>
        <button id="startGame" class="primary" hidden>Start game</button>
      </section>
      <section class="panel" id="votingPanel" hidden>
        <h2>Who will stay safe?</h2>
        <div id="voteButtons"></div>
      </section>
      <section class="panel" id="pendingPanel" hidden>
        <h2>All votes are in</h2>
        <p>Play the dice round, then the host records the loser.</p>
        <div id="loserButtons"></div>
      </section>
      <section class="panel">
        <h2>Shots</h2>
        <ul id="shotList"></ul>
        <button id="nextRound" class="secondary" hidden>Next round</button>
        <button id="finishGame" class="secondary" hidden>Finish game</button>
        <button id="leaveGame" class="secondary">Leave</button>
      </section>
    </main>
`)
		_, _ = io.WriteString(w, fmt.Sprintf(`
    <script>
      const gameID = %d;
      const playerID = %d;
`, gameID, playerID))
		_, _ = io.WriteString(w, `
      const token = localStorage.getItem("ss_token") || "";
      const authHeaders = token ? { Authorization: "Bearer " + token } : {};
      let state = null;

      function isHost() {
        if (!state) return false;
        const me = state.players.find((p) => p.id === playerID);
        return !!me && me.is_host;
      }

      function post(path, body) {
        return fetch(path, {
          method: "POST",
          headers: Object.assign({ "Content-Type": "application/json" }, authHeaders),
          body: JSON.stringify(body || {}),
        });
      }

      function render() {
        if (!state) return;
        document.getElementById("joinCode").textContent = state.game.join_code;
        const round = state.active_round;
        const status = state.game.status === "finished" ? "finished"
          : round ? round.status : state.game.status;
        document.getElementById("statusLine").textContent =
          "Game " + state.game.status + (round ? ", round " + round.number + " " + round.status : "");

        document.getElementById("lobbyPanel").hidden = state.game.status !== "lobby";
        document.getElementById("startGame").hidden = !(state.game.status === "lobby" && isHost());
        document.getElementById("votingPanel").hidden = !(round && round.status === "voting");
        document.getElementById("pendingPanel").hidden = !(round && round.status === "pending");
        document.getElementById("nextRound").hidden =
          !(isHost() && round && round.status === "finished" && state.game.status === "active");
        document.getElementById("finishGame").hidden = !(isHost() && state.game.status === "active");

        const voteButtons = document.getElementById("voteButtons");
        voteButtons.innerHTML = "";
        const loserButtons = document.getElementById("loserButtons");
        loserButtons.innerHTML = "";
        for (const player of state.players) {
          if (player.has_left) continue;
          if (round && round.status === "voting") {
            const btn = document.createElement("button");
            btn.textContent = player.name;
            btn.addEventListener("click", () =>
              post("/api/rounds/" + round.id + "/votes", { voter_id: playerID, voted_for_id: player.id }));
            voteButtons.appendChild(btn);
          }
          if (isHost() && round && round.status === "pending") {
            const btn = document.createElement("button");
            btn.textContent = player.name + " lost";
            btn.addEventListener("click", () =>
              post("/api/rounds/" + round.id + "/finish", { player_id: playerID, loser_id: player.id }));
            loserButtons.appendChild(btn);
          }
        }

        const shotList = document.getElementById("shotList");
        shotList.innerHTML = "";
        for (const player of state.players) {
          const item = document.createElement("li");
          item.textContent = player.name + ": " + player.shots +
            (player.has_left ? " (left)" : "") + (player.is_host ? " (host)" : "");
          shotList.appendChild(item);
        }
      }

      document.getElementById("startGame").addEventListener("click", () =>
        post("/api/games/" + gameID + "/start", { player_id: playerID }));
      document.getElementById("nextRound").addEventListener("click", () =>
        post("/api/games/" + gameID + "/rounds", { player_id: playerID }));
      document.getElementById("finishGame").addEventListener("click", () =>
        post("/api/games/" + gameID + "/finish", { player_id: playerID }));
      document.getElementById("leaveGame").addEventListener("click", async () => {
        await post("/api/players/" + playerID + "/leave");
        window.location.href = "/";
      });

      const scheme = window.location.protocol === "https:" ? "wss" : "ws";
      const socket = new WebSocket(scheme + "://" + window.location.host + "/ws/games/" + gameID);
      socket.addEventListener("message", (event) => {
        state = JSON.parse(event.data);
        render();
      });
    </script>
  </body>
</html>`)
		return nil
	})
}
