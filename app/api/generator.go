package api

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lysyi3m/event-comb/app/database"
)

// Generator renders stored events as RSS 2.0 with the event module, so the
// output can be consumed by other event collectors.
type Generator struct {
	baseURL string
	version string
}

func NewGenerator(baseURL, version string) *Generator {
	return &Generator{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		version: version,
	}
}

func (g *Generator) Run(organisation string, events []database.Event) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:ev="http://purl.org/rss/1.0/modules/event/" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	title := "Event Comb"
	if organisation != "" {
		title = fmt.Sprintf("Event Comb: %s", organisation)
	}
	g.writeElement(&buf, "title", title, 4)
	g.writeElement(&buf, "link", g.baseURL, 4)
	g.writeElement(&buf, "description", "Collected events with normalized dates", 4)

	if g.baseURL != "" {
		selfLink := g.baseURL + "/events.rss"
		if organisation != "" {
			selfLink += "?organisation=" + organisation
		}
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(selfLink)))
	}

	lastBuildDate := time.Now().In(time.Local)
	for _, ev := range events {
		if ev.UpdatedAt.After(lastBuildDate) {
			lastBuildDate = ev.UpdatedAt
		}
	}
	g.writeElement(&buf, "lastBuildDate", lastBuildDate.Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Event-Comb/%s", g.version), 4)

	for _, ev := range events {
		g.writeItem(&buf, ev)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, ev database.Event) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(ev.ContentHash))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", ev.Title, 6)
	g.writeElement(buf, "link", ev.Link, 6)
	g.writeElement(buf, "description", ev.Description, 6)

	// StartDatum holds the raw text when the date could not be normalized.
	g.writeElement(buf, "ev:startdate", ev.StartDatum, 6)
	if ev.EndDatum != "" {
		g.writeElement(buf, "ev:enddate", ev.EndDatum, 6)
	}
	g.writeElement(buf, "ev:location", ev.Location, 6)
	g.writeElement(buf, "ev:organizer", ev.Organisation, 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}
