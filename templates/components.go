// Package templates renders the web UI. Components are written directly
// against the templ runtime as ComponentFuncs.
package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"dungeon_ai/game"
	"dungeon_ai/setting"
)

// ChatData is everything the chat page needs for one render.
type ChatData struct {
	Setting  *setting.Setting
	State    *game.State
	Notes    []game.Note
	BasePath string
}

// SavesData is the view model of the save-file listing page.
type SavesData struct {
	Setting  *setting.Setting
	Files    []string
	Notes    []game.Note
	BasePath string
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func page(title string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="it">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
body { background: #1e1e1e; color: #f8f8f2; font-family: Georgia, serif; margin: 0; }
main { max-width: 56rem; margin: 0 auto; padding: 1rem; }
a { color: #66d9ef; }
.msg { margin: 0.75rem 0; padding: 0.75rem 1rem; border-radius: 8px; white-space: pre-wrap; }
.msg.user { background: #2d2d2d; }
.msg.assistant { background: #26231c; }
.note { padding: 0.5rem 1rem; border-left: 4px solid; margin: 0.5rem 0; background: #2d2d2d; }
.panel { background: #252525; border-radius: 8px; padding: 1rem; margin-bottom: 1rem; }
form.turn { display: flex; gap: 0.5rem; margin-top: 1rem; }
form.turn input[type=text] { flex: 1; padding: 0.6rem; background: #2d2d2d; color: #f8f8f2; border: 1px solid #444; border-radius: 6px; }
button { padding: 0.6rem 1rem; background: #49483e; color: #f8f8f2; border: 0; border-radius: 6px; cursor: pointer; }
.hpbar { background: #111; border-radius: 6px; overflow: hidden; height: 0.8rem; }
.hpbar div { height: 100%%; }
form.use { display: inline; margin-left: 0.25rem; }
form.use button { padding: 0.1rem 0.5rem; font-size: 0.8rem; }
.muted { color: #75715e; }
</style>
</head>
<body>
<main>
`, esc(title)); err != nil {
			return err
		}
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

func writeNotes(w io.Writer, notes []game.Note) error {
	for _, n := range notes {
		if _, err := fmt.Fprintf(w,
			`<div class="note" style="border-color: %s">%s</div>`+"\n",
			noteColor(n.Kind), esc(n.Text)); err != nil {
			return err
		}
	}
	return nil
}

// Home lists the available settings.
func Home(settings []*setting.Setting) templ.Component {
	return page("Dungeon AI", func(w io.Writer) error {
		if _, err := io.WriteString(w, "<h1>Dungeon AI</h1>\n<p>Scegli un'ambientazione:</p>\n<ul>\n"); err != nil {
			return err
		}
		for _, s := range settings {
			if _, err := fmt.Fprintf(w,
				`<li><a href="/%s/">%s</a> <span class="muted">— %s</span></li>`+"\n",
				esc(s.ID), esc(s.Name), esc(s.Tagline)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>\n")
		return err
	})
}

// Chat renders the main game page: notices, status panel, transcript and the
// input form.
func Chat(data ChatData) templ.Component {
	return page(data.Setting.Name, func(w io.Writer) error {
		st := data.State
		if err := writeNotes(w, data.Notes); err != nil {
			return err
		}

		health := GetHealthStatus(st.Vitals.HP, st.Vitals.MaxHP)
		percent := 0
		if st.Vitals.MaxHP > 0 {
			percent = st.Vitals.HP * 100 / st.Vitals.MaxHP
		}
		if _, err := fmt.Fprintf(w, `<div class="panel">
<h1>%s</h1>
<p><strong>%s</strong> · Livello %d · <span style="color: %s">%s</span> (%d/%d HP)</p>
<div class="hpbar"><div style="width: %d%%; background: %s"></div></div>
<p>%s</p>
<p>🎯 %s</p>
`,
			esc(data.Setting.Name), esc(st.Class), st.Level,
			health.Color, esc(health.Description), st.Vitals.HP, st.Vitals.MaxHP,
			percent, health.Color,
			esc(FormatStats(st.Stats)), esc(st.Objective)); err != nil {
			return err
		}
		items := st.Inventory.Items()
		if len(items) == 0 {
			if _, err := io.WriteString(w, `<p class="muted">Inventario vuoto</p>`+"\n"); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, "<p>🎒 "); err != nil {
				return err
			}
			for i, item := range items {
				if i > 0 {
					if _, err := io.WriteString(w, ", "); err != nil {
						return err
					}
				}
				if _, err := io.WriteString(w, esc(item)); err != nil {
					return err
				}
				if _, ok := data.Setting.HealAmount(item); ok {
					if _, err := fmt.Fprintf(w,
						`<form class="use" method="post" action="%s/use"><input type="hidden" name="item" value="%s"><button>Usa</button></form>`,
						data.BasePath, esc(item)); err != nil {
						return err
					}
				}
			}
			if _, err := io.WriteString(w, "</p>\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<p>
<a href="%[1]s/saves">Salvataggi</a> ·
<a href="%[1]s/download">Scarica PDF</a>
</p>
<form method="post" action="%[1]s/reset" onsubmit="return confirm('Iniziare una nuova partita?')"><button>Nuova partita</button></form>
</div>
`, data.BasePath); err != nil {
			return err
		}

		for _, msg := range st.Messages {
			if msg.Role != game.RoleUser && msg.Role != game.RoleAssistant {
				continue
			}
			if _, err := fmt.Fprintf(w, `<div class="msg %s">%s</div>`+"\n",
				msg.Role, esc(msg.Content)); err != nil {
				return err
			}
		}

		if st.Vitals.Dead() {
			_, err := fmt.Fprintf(w, `<div class="note" style="border-color: #f92672"><strong>SEI MORTO.</strong> La storia finisce qui.</div>
<form method="post" action="%s/reset"><button>Ricomincia</button></form>
`, data.BasePath)
			return err
		}

		_, err := fmt.Fprintf(w, `<form class="turn" method="post" action="%s/chat">
<input type="text" name="user_input" placeholder="Cosa fai?" autofocus autocomplete="off">
<button>Invia</button>
</form>
`, data.BasePath)
		return err
	})
}

// Saves lists the player's save files with load links.
func Saves(data SavesData) templ.Component {
	return page("Salvataggi — "+data.Setting.Name, func(w io.Writer) error {
		if err := writeNotes(w, data.Notes); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "<h1>Salvataggi</h1>\n<p><a href=\"%s/\">← Torna alla partita</a></p>\n", data.BasePath); err != nil {
			return err
		}
		if len(data.Files) == 0 {
			_, err := io.WriteString(w, `<p class="muted">Nessun salvataggio.</p>`+"\n")
			return err
		}
		if _, err := io.WriteString(w, "<ul>\n"); err != nil {
			return err
		}
		for _, f := range data.Files {
			if _, err := fmt.Fprintf(w,
				`<li><a href="%s/load?file=%s">%s</a></li>`+"\n",
				data.BasePath, url.QueryEscape(f), esc(f)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</ul>\n")
		return err
	})
}
