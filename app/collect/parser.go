package collect

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/lysyi3m/event-comb/app/event"
)

// eventNamespace is the prefix of the RSS event module
// (xmlns:ev="http://purl.org/rss/1.0/modules/event/").
const eventNamespace = "ev"

type FeedParser struct {
	gofeedParser *gofeed.Parser
}

func NewFeedParser() *FeedParser {
	return &FeedParser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run turns every feed item into an event record of organisation. Datum
// keeps the source's own text; normalization happens later.
func (p *FeedParser) Run(data []byte, organisation string) ([]event.Event, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	events := make([]event.Event, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		events = append(events, p.toEvent(item, organisation))
	}

	return events, nil
}

func (p *FeedParser) toEvent(item *gofeed.Item, organisation string) event.Event {
	return event.Event{
		Organisation: organisation,
		Title:        strings.TrimSpace(item.Title),
		Datum:        p.rawDatum(item),
		Location:     strings.TrimSpace(extensionValue(item.Extensions, "location")),
		Description:  PlainText(cmp.Or(item.Description, item.Content)),
		Link:         strings.TrimSpace(item.Link),
	}
}

// rawDatum prefers the event module's start/end dates and falls back to the
// item's published and updated texts as written in the feed.
func (p *FeedParser) rawDatum(item *gofeed.Item) string {
	start := strings.TrimSpace(extensionValue(item.Extensions, "startdate"))
	end := strings.TrimSpace(extensionValue(item.Extensions, "enddate"))

	switch {
	case start != "" && end != "" && end != start:
		return start + " - " + end
	case start != "":
		return start
	}

	return strings.TrimSpace(cmp.Or(item.Published, item.Updated))
}

func extensionValue(extensions ext.Extensions, name string) string {
	if extensions == nil {
		return ""
	}
	values := extensions[eventNamespace][name]
	if len(values) == 0 {
		return ""
	}
	return values[0].Value
}
