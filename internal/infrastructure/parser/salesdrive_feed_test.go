package parser

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"SalesDriveSync/internal/domain"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<yml_catalog date="2024-03-01 10:00">
  <shop>
    <categories>
      <category id="5">Widgets</category>
      <category id="7" parentId="5">Gadgets</category>
    </categories>
    <offers>
      <offer id="1" available="true">
        <name>Blue widget</name>
        <description><![CDATA[Hello & <b>world</b>]]></description>
        <price>120.50</price>
        <vendorCode>BW-1</vendorCode>
        <quantity_in_stock>5</quantity_in_stock>
        <categoryId>5</categoryId>
        <picture>https://shop.example/u1.jpg</picture>
        <picture>https://shop.example/u2.jpg</picture>
      </offer>
      <offer id="2">
        <name>Plain</name>
        <description>Just text</description>
        <picture>https://shop.example/only.jpg</picture>
      </offer>
      <offer>
        <name>No id</name>
      </offer>
    </offers>
  </shop>
</yml_catalog>`

func TestParse(t *testing.T) {
	t.Parallel()

	feed, err := Parse([]byte(sampleFeed))
	require.NoError(t, err)

	require.Len(t, feed.Offers, 3)
	require.Len(t, feed.Categories, 2)

	first := feed.Offers[0]
	assert.Equal(t, "1", first.ExternalID)
	assert.Equal(t, "true", first.Attributes["available"])
	assert.Equal(t, "Blue widget", first.Field("name"))
	assert.Equal(t, "Hello & <b>world</b>", first.Description)
	assert.Equal(t, []string{"https://shop.example/u1.jpg", "https://shop.example/u2.jpg"}, first.Fields["picture"])

	second := feed.Offers[1]
	assert.Equal(t, "Just text", second.Description)
	assert.Equal(t, []string{"https://shop.example/only.jpg"}, second.Fields["picture"])

	assert.False(t, feed.Offers[2].HasID())

	assert.Equal(t, domain.FeedCategory{ID: 5, Name: "Widgets"}, feed.Categories[0])
	assert.Equal(t, domain.FeedCategory{ID: 7, ParentID: 5, Name: "Gadgets"}, feed.Categories[1])
}

func TestParseSingleOfferStaysList(t *testing.T) {
	t.Parallel()

	feed, err := Parse([]byte(`<yml_catalog><shop>
		<categories><category id="1">Only</category></categories>
		<offers><offer id="9"><name>Solo</name></offer></offers>
	</shop></yml_catalog>`))
	require.NoError(t, err)

	require.Len(t, feed.Offers, 1)
	require.Len(t, feed.Categories, 1)
	assert.Equal(t, "9", feed.Offers[0].ExternalID)
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"not xml":            `this is not xml <`,
		"missing shop":       `<yml_catalog><other/></yml_catalog>`,
		"missing offers":     `<yml_catalog><shop><categories/></shop></yml_catalog>`,
		"missing categories": `<yml_catalog><shop><offers/></shop></yml_catalog>`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedFeed), "got %v", err)
		})
	}
}

func TestDescriptionCommentVariant(t *testing.T) {
	t.Parallel()

	feed, err := Parse([]byte(`<yml_catalog><shop><categories/><offers>
		<offer id="1"><description><!--[CDATA[<p>Legacy</p>]]--></description></offer>
		<offer id="2"><description>Intro <p>nested</p></description></offer>
	</offers></shop></yml_catalog>`))
	require.NoError(t, err)

	assert.Equal(t, "<p>Legacy</p>", feed.Offers[0].Description)
	assert.Equal(t, "Intro <p>nested</p>", feed.Offers[1].Description)
}

func TestDescriptionKeepsWhitespaceInsideCDATA(t *testing.T) {
	t.Parallel()

	feed, err := Parse([]byte(`<yml_catalog><shop><categories/><offers>
		<offer id="1"><description>
			<![CDATA[  <pre> indented</pre>
]]>
		</description></offer>
		<offer id="2"><description>  <!--[CDATA[ padded ]]-->  </description></offer>
	</offers></shop></yml_catalog>`))
	require.NoError(t, err)

	assert.Equal(t, "  <pre> indented</pre>\n", feed.Offers[0].Description)
	assert.Equal(t, " padded ", feed.Offers[1].Description)
}

func TestParseWindows1251(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0" encoding="windows-1251"?>
<yml_catalog><shop><categories><category id="3">Чашки</category></categories>
<offers><offer id="1"><name>Чашка</name></offer></offers></shop></yml_catalog>`
	encoded, err := charmap.Windows1251.NewEncoder().String(doc)
	require.NoError(t, err)

	feed, err := Parse([]byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, "Чашка", feed.Offers[0].Field("name"))
	assert.Equal(t, "Чашки", feed.Categories[0].Name)
}

func TestFeedReaderFetch(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed.xml":
			_, _ = w.Write([]byte(sampleFeed))
		case "/empty.xml":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	reader := NewFeedReader(server.Client(), nil)
	ctx := context.Background()

	feed, err := reader.Fetch(ctx, server.URL+"/feed.xml")
	require.NoError(t, err)
	assert.Len(t, feed.Offers, 3)

	for _, path := range []string{"/missing.xml", "/empty.xml"} {
		_, err := reader.Fetch(ctx, server.URL+path)
		require.Error(t, err, path)
		assert.True(t, errors.Is(err, domain.ErrFeedUnreachable), "%s: %v", path, err)
	}
}

func TestFeedReaderRejectsOversizedFeed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleFeed))
	}))
	defer server.Close()

	reader := NewFeedReader(server.Client(), nil)
	reader.maxSize = int64(len(sampleFeed)) - 1

	_, err := reader.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFeedUnreachable), "got %v", err)
	assert.Contains(t, err.Error(), "feed too large")

	reader.maxSize = int64(len(sampleFeed))
	feed, err := reader.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, feed.Offers, 3)
}
