package server

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/conneroisu/buttonkit/internal/stories"
	"github.com/conneroisu/buttonkit/pkg/button"
)

const galleryHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>buttonkit</title>
<link rel="stylesheet" href="/styles.css">
<style>
body{font-family:system-ui,-apple-system,sans-serif;margin:0;padding:24px;background:#f6f9fc;color:#333}
h1{font-size:20px;margin:0 0 16px}
.gallery{display:grid;grid-template-columns:repeat(auto-fill,minmax(240px,1fr));gap:16px}
.story{background:#fff;border:1px solid #e6e6e6;border-radius:6px;padding:16px}
.story__name{font-weight:700;font-size:14px;margin:0 0 4px}
.story__desc{font-size:12px;color:#666;margin:0 0 12px}
.story__error{font-size:12px;color:#b00020}
#status{font-size:12px;color:#b00020;margin-bottom:12px}
</style>
</head>
<body>
`

// reloadScript is served from /reload.js; the CSP allows no inline script.
const reloadScript = `(function(){
var ws=new WebSocket((location.protocol==="https:"?"wss://":"ws://")+location.host+"/ws");
ws.onmessage=function(e){
var m=JSON.parse(e.data);
if(m.type==="reload"){location.reload();}
else if(m.type==="error"){document.getElementById("status").textContent=m.content;}
};
})();
`

var titleCaser = cases.Title(language.English)

// storyLabel turns a story name such as "primary-outline-small" into
// "Primary Outline Small".
func storyLabel(name string) string {
	return titleCaser.String(strings.ReplaceAll(name, "-", " "))
}

func galleryPage(cat *stories.Catalogue, live bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, galleryHead); err != nil {
			return err
		}
		header := `<h1>` + strconv.Itoa(len(cat.Stories)) + ` stories</h1>` + "\n" +
			`<div id="status"></div>` + "\n" + `<main class="gallery">` + "\n"
		if _, err := io.WriteString(w, header); err != nil {
			return err
		}

		for _, story := range cat.Stories {
			if err := storyCard(story).Render(ctx, w); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "</main>\n"); err != nil {
			return err
		}
		if live {
			if _, err := io.WriteString(w, `<script src="/reload.js"></script>`+"\n"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</body>\n</html>\n")
		return err
	})
}

// storyCard renders one story. A story that fails to render shows its
// error in place of the button.
func storyCard(story stories.Story) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<section class="story" data-story="` + templ.EscapeString(story.Name) + `">`)
		sb.WriteString(`<p class="story__name">` + templ.EscapeString(storyLabel(story.Name)) + `</p>`)
		if story.Description != "" {
			sb.WriteString(`<p class="story__desc">` + templ.EscapeString(story.Description) + `</p>`)
		}

		var btn strings.Builder
		if err := button.Button(story.Props()).Render(ctx, &btn); err != nil {
			if ctx.Err() != nil {
				return err
			}
			sb.WriteString(`<p class="story__error">` + templ.EscapeString(err.Error()) + `</p>`)
		} else {
			sb.WriteString(btn.String())
		}
		sb.WriteString("</section>\n")

		_, err := io.WriteString(w, sb.String())
		return err
	})
}
