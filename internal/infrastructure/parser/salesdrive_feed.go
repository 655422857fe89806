package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/beevik/etree"

	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/ports"
)

const maxFeedSize = 256 << 20

var cdataMarkers = strings.NewReplacer(
	"<description><!--[CDATA[", "",
	"<description><![CDATA[", "",
	"]]></description>", "",
)

// FeedReader downloads the SalesDrive YML export and turns it into offers and categories.
type FeedReader struct {
	client  *http.Client
	logger  *slog.Logger
	maxSize int64
}

var _ ports.FeedSource = (*FeedReader)(nil)

// NewFeedReader wires an HTTP client; a nil client gets a two minute timeout.
func NewFeedReader(client *http.Client, logger *slog.Logger) *FeedReader {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}
	return &FeedReader{client: client, logger: logger, maxSize: maxFeedSize}
}

// Fetch downloads feedURL and parses it. Download problems wrap domain.ErrFeedUnreachable,
// structural problems wrap domain.ErrMalformedFeed.
func (f *FeedReader) Fetch(ctx context.Context, feedURL string) (domain.Feed, error) {
	raw, err := f.download(ctx, feedURL)
	if err != nil {
		return domain.Feed{}, err
	}
	f.debug("feed downloaded", "url", feedURL, "bytes", len(raw))

	feed, err := Parse(raw)
	if err != nil {
		return domain.Feed{}, err
	}

	f.debug("feed parsed", "offers", len(feed.Offers), "categories", len(feed.Categories))
	return feed, nil
}

func (f *FeedReader) download(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrFeedUnreachable, err)
	}
	req.Header.Set("User-Agent", "SalesDriveSync/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request feed: %v", domain.ErrFeedUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned %s", domain.ErrFeedUnreachable, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", domain.ErrFeedUnreachable, err)
	}
	if int64(len(body)) > f.maxSize {
		return nil, fmt.Errorf("%w: feed too large, limit is %d bytes", domain.ErrFeedUnreachable, f.maxSize)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", domain.ErrFeedUnreachable)
	}

	return body, nil
}

// Parse reads shop/offers/offer and shop/categories/category from a feed document.
// Both collections are lists regardless of how many elements the document holds.
func Parse(data []byte) (domain.Feed, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromBytes(data); err != nil {
		return domain.Feed{}, fmt.Errorf("%w: %v", domain.ErrMalformedFeed, err)
	}

	root := doc.Root()
	if root == nil {
		return domain.Feed{}, fmt.Errorf("%w: document has no root element", domain.ErrMalformedFeed)
	}

	shop := root
	if root.Tag != "shop" {
		shop = root.SelectElement("shop")
	}
	if shop == nil {
		return domain.Feed{}, fmt.Errorf("%w: missing shop element", domain.ErrMalformedFeed)
	}

	offersEl := shop.SelectElement("offers")
	if offersEl == nil {
		return domain.Feed{}, fmt.Errorf("%w: missing shop/offers", domain.ErrMalformedFeed)
	}
	categoriesEl := shop.SelectElement("categories")
	if categoriesEl == nil {
		return domain.Feed{}, fmt.Errorf("%w: missing shop/categories", domain.ErrMalformedFeed)
	}

	offerEls := offersEl.SelectElements("offer")
	feed := domain.Feed{
		Offers:     make([]domain.RawOffer, 0, len(offerEls)),
		Categories: parseCategories(categoriesEl.SelectElements("category")),
	}
	for _, el := range offerEls {
		feed.Offers = append(feed.Offers, parseOffer(el))
	}

	return feed, nil
}

func parseOffer(el *etree.Element) domain.RawOffer {
	offer := domain.RawOffer{
		Attributes: make(map[string]string, len(el.Attr)),
		Fields:     make(map[string][]string),
	}

	for _, attr := range el.Attr {
		offer.Attributes[attr.Key] = attr.Value
	}
	offer.ExternalID = strings.TrimSpace(offer.Attributes["id"])

	for _, child := range el.ChildElements() {
		offer.Fields[child.Tag] = append(offer.Fields[child.Tag], strings.TrimSpace(child.Text()))
	}

	if desc := el.SelectElement("description"); desc != nil {
		offer.Description = DescriptionMarkup(desc)
	}

	return offer
}

func parseCategories(els []*etree.Element) []domain.FeedCategory {
	categories := make([]domain.FeedCategory, 0, len(els))
	for _, el := range els {
		id, err := strconv.Atoi(strings.TrimSpace(el.SelectAttrValue("id", "")))
		if err != nil {
			continue
		}
		parentID, _ := strconv.Atoi(strings.TrimSpace(el.SelectAttrValue("parentId", "")))
		categories = append(categories, domain.FeedCategory{
			ID:       id,
			ParentID: parentID,
			Name:     strings.TrimSpace(el.Text()),
		})
	}
	return categories
}

// DescriptionMarkup returns the content of a description element with CDATA wrappers removed.
// CDATA sections and the <!--[CDATA[...]]--> comment variant contribute their content verbatim;
// nested elements are serialized back to markup. Whitespace is trimmed only outside CDATA.
func DescriptionMarkup(el *etree.Element) string {
	var segments []markupSegment
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.CharData:
			segments = append(segments, markupSegment{text: t.Data, verbatim: t.IsCData()})
		case *etree.Comment:
			if inner, ok := commentCDATA(t.Data); ok {
				segments = append(segments, markupSegment{text: inner, verbatim: true})
			}
		case *etree.Element:
			segments = append(segments, markupSegment{text: serializeElement(t)})
		}
	}
	return stripCDATA(joinSegments(segments))
}

type markupSegment struct {
	text     string
	verbatim bool
}

// joinSegments drops surrounding whitespace of plain text at both ends.
func joinSegments(segments []markupSegment) string {
	for len(segments) > 0 && !segments[0].verbatim {
		segments[0].text = strings.TrimLeftFunc(segments[0].text, unicode.IsSpace)
		if segments[0].text != "" {
			break
		}
		segments = segments[1:]
	}
	for len(segments) > 0 && !segments[len(segments)-1].verbatim {
		last := &segments[len(segments)-1]
		last.text = strings.TrimRightFunc(last.text, unicode.IsSpace)
		if last.text != "" {
			break
		}
		segments = segments[:len(segments)-1]
	}

	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.text)
	}
	return b.String()
}

func commentCDATA(data string) (string, bool) {
	if !strings.HasPrefix(data, "[CDATA[") {
		return "", false
	}
	inner := strings.TrimPrefix(data, "[CDATA[")
	inner = strings.TrimSuffix(inner, "]]")
	return inner, true
}

// stripCDATA removes wrappers that survived as literal text.
func stripCDATA(value string) string {
	value = cdataMarkers.Replace(value)
	value = strings.TrimPrefix(value, "<![CDATA[")
	value = strings.TrimSuffix(value, "]]>")
	return value
}

func serializeElement(el *etree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return out
}

func (f *FeedReader) debug(msg string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
