package platform

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/html"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// CodeChef has no public API; the profile page is parsed and read by class and link anchors.
// Anchor drift surfaces as ErrUpstreamShapeChanged rather than zero values.
const (
	codeChefNameClass    = "h2-style"
	codeChefDetailsClass = "user-details"
	codeChefRatingClass  = "rating-number"
	codeChefStarsClass   = "rating"

	codeChefHighestPhrase = "Highest Rating"
	codeChefSolvedPhrase  = "Total Problems Solved"

	codeChefGlobalRankHref    = "/ratings/all"
	codeChefCountryRankPrefix = "/ratings/all?filterBy=Country"
)

// all_rating is a script literal, not markup
var codeChefAllRatingRe = regexp.MustCompile(`(?s)var all_rating\s*=\s*(\[.*?\]);`)

// codeChefZone is the offset of all_rating end dates
var codeChefZone = time.FixedZone("IST", 5*60*60+30*60)

const codeChefDateLayout = "2006-01-02 15:04:05"

// CodeChefRaw is the scraped CodeChef stats payload
type CodeChefRaw struct {
	Handle        string
	Rating        int
	HighestRating *int
	Stars         int
	Solved        int
	GlobalRank    int
	CountryRank   int
}

// RawPlatform implements domain.RawStats
func (CodeChefRaw) RawPlatform() domain.Platform { return domain.PlatformCodeChef }

// CodeChefAdapter scrapes public CodeChef profile pages
type CodeChefAdapter struct {
	client  *Client
	baseURL string
}

// NewCodeChefAdapter creates a CodeChef adapter
func NewCodeChefAdapter(client *Client, baseURL string) *CodeChefAdapter {
	if baseURL == "" {
		baseURL = DefaultCodeChefBaseURL
	}
	return &CodeChefAdapter{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *CodeChefAdapter) Platform() domain.Platform { return domain.PlatformCodeChef }

// RequestsPerSync is one page load; stats and history share it
func (a *CodeChefAdapter) RequestsPerSync() int { return 1 }

func (a *CodeChefAdapter) page(ctx context.Context, handle string) (*html.Node, error) {
	resp, err := a.client.Do(ctx, domain.PlatformCodeChef, Request{
		URL: a.baseURL + "/users/" + url.PathEscape(handle),
	})
	if err != nil {
		return nil, err
	}
	// Unknown handles redirect away from the profile path
	if resp.IsRedirect() {
		return nil, fmt.Errorf("%w: codechef: %s", domain.ErrHandleNotFound, handle)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus(domain.PlatformCodeChef, resp.StatusCode)
	}
	doc, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("%w: codechef: %v", domain.ErrUpstreamShapeChanged, err)
	}
	return doc, nil
}

// FetchProfileText returns the display name and the user-details section as plain text
func (a *CodeChefAdapter) FetchProfileText(ctx context.Context, handle string) (string, error) {
	doc, err := a.page(ctx, handle)
	if err != nil {
		return "", err
	}

	var parts []string
	if n := findNode(doc, elementWithClass("h1", codeChefNameClass)); n != nil {
		parts = append(parts, textContent(n))
	}
	if n := findNode(doc, elementWithClass("section", codeChefDetailsClass)); n != nil {
		parts = append(parts, textContent(n))
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: codechef: profile details anchor missing", domain.ErrUpstreamShapeChanged)
	}
	return joinNonEmpty(parts...), nil
}

// FetchStats scrapes rating, stars, ranks and solved count
func (a *CodeChefAdapter) FetchStats(ctx context.Context, handle string) (domain.RawStats, error) {
	doc, err := a.page(ctx, handle)
	if err != nil {
		return nil, err
	}
	raw, err := parseCodeChefStats(doc, handle)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// FetchRatingHistory parses the all_rating array embedded in the profile page.
// A page without the array has no contest history.
func (a *CodeChefAdapter) FetchRatingHistory(ctx context.Context, handle string) ([]domain.RawRatingPoint, error) {
	doc, err := a.page(ctx, handle)
	if err != nil {
		return nil, err
	}
	return parseCodeChefHistory(doc)
}

// FetchSnapshot reads stats and history from one page load
func (a *CodeChefAdapter) FetchSnapshot(ctx context.Context, handle string) (domain.RawStats, []domain.RawRatingPoint, error) {
	doc, err := a.page(ctx, handle)
	if err != nil {
		return nil, nil, err
	}
	raw, err := parseCodeChefStats(doc, handle)
	if err != nil {
		return nil, nil, err
	}
	history, err := parseCodeChefHistory(doc)
	if err != nil {
		return nil, nil, err
	}
	return raw, history, nil
}

func parseCodeChefStats(doc *html.Node, handle string) (CodeChefRaw, error) {
	rating, ok := leadingInt(textOf(findNode(doc, elementWithClass("div", codeChefRatingClass))))
	if !ok {
		return CodeChefRaw{}, anchorMissing(codeChefRatingClass)
	}
	solved, ok := afterPhrase(doc, codeChefSolvedPhrase)
	if !ok {
		return CodeChefRaw{}, anchorMissing(codeChefSolvedPhrase)
	}

	raw := CodeChefRaw{Handle: handle, Rating: rating, Solved: solved}
	raw.Stars, _ = leadingInt(textOf(findNode(doc, elementWithClass("span", codeChefStarsClass))))
	raw.GlobalRank, _ = leadingInt(textOf(findNode(doc, func(n *html.Node) bool {
		return isElement(n, "a") && attr(n, "href") == codeChefGlobalRankHref
	})))
	raw.CountryRank, _ = leadingInt(textOf(findNode(doc, func(n *html.Node) bool {
		return isElement(n, "a") && strings.HasPrefix(attr(n, "href"), codeChefCountryRankPrefix)
	})))
	if v, ok := afterPhrase(doc, codeChefHighestPhrase); ok {
		raw.HighestRating = &v
	}
	return raw, nil
}

func parseCodeChefHistory(doc *html.Node) ([]domain.RawRatingPoint, error) {
	var payload string
	findNode(doc, func(n *html.Node) bool {
		if !isElement(n, "script") || n.FirstChild == nil {
			return false
		}
		if m := codeChefAllRatingRe.FindStringSubmatch(n.FirstChild.Data); m != nil {
			payload = m[1]
			return true
		}
		return false
	})
	if payload == "" {
		return []domain.RawRatingPoint{}, nil
	}

	var entries []codeChefRatingEntry
	if err := decodeJSON(domain.PlatformCodeChef, []byte(payload), &entries); err != nil {
		return nil, err
	}

	out := make([]domain.RawRatingPoint, 0, len(entries))
	for _, e := range entries {
		at, err := time.ParseInLocation(codeChefDateLayout, e.EndDate, codeChefZone)
		if err != nil {
			return nil, fmt.Errorf("%w: codechef: end_date %q", domain.ErrUpstreamShapeChanged, e.EndDate)
		}
		name := e.Name
		if name == "" {
			name = e.Code
		}
		out = append(out, domain.RawRatingPoint{
			At:          at.UTC(),
			Rating:      int(e.Rating),
			ContestName: name,
			Rank:        int(e.Rank),
		})
	}
	return out, nil
}

type codeChefRatingEntry struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Rating  flexInt `json:"rating"`
	Rank    flexInt `json:"rank"`
	EndDate string  `json:"end_date"`
}

// Normalize keeps stars and ranks as extensions. CodeChef reports no difficulty split.
func (a *CodeChefAdapter) Normalize(raw domain.RawStats, history []domain.RawRatingPoint) (*domain.NormalizedStats, error) {
	cc, ok := raw.(CodeChefRaw)
	if !ok {
		return nil, wrongVariant(domain.PlatformCodeChef, raw)
	}

	stats := &domain.NormalizedStats{
		Platform:            domain.PlatformCodeChef,
		TotalSolved:         cc.Solved,
		RatingCurrent:       domain.IntPtr(cc.Rating),
		RatingHistory:       convertHistory(history),
		DifficultyBreakdown: map[string]int{},
		Extensions:          map[string]any{},
	}
	stats.SortHistory()

	if cc.HighestRating != nil {
		stats.RatingMax = domain.IntPtr(*cc.HighestRating)
	} else if m := maxHistoryRating(stats.RatingHistory); m != nil {
		stats.RatingMax = m
	} else {
		stats.RatingMax = domain.IntPtr(cc.Rating)
	}
	if cc.Stars > 0 {
		stats.Extensions[ExtStars] = cc.Stars
	}
	if cc.GlobalRank > 0 {
		stats.Extensions[ExtGlobalRank] = cc.GlobalRank
	}
	if cc.CountryRank > 0 {
		stats.Extensions[ExtCountryRank] = cc.CountryRank
	}
	return stats, nil
}

func anchorMissing(anchor string) error {
	return fmt.Errorf("%w: codechef: %s anchor missing", domain.ErrUpstreamShapeChanged, anchor)
}

// findNode returns the first node in document order that match accepts
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func elementWithClass(tag, class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return isElement(n, tag) && hasClass(n, class)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// textContent joins the visible text under n with single spaces
func textContent(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			parts = append(parts, n.Data)
		case isElement(n, "script"), isElement(n, "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	return textContent(n)
}

// afterPhrase reads the number that follows phrase in the first text node holding it
func afterPhrase(doc *html.Node, phrase string) (int, bool) {
	var rest string
	findNode(doc, func(n *html.Node) bool {
		if n.Type != html.TextNode {
			return false
		}
		i := strings.Index(n.Data, phrase)
		if i < 0 {
			return false
		}
		rest = n.Data[i+len(phrase):]
		return true
	})
	return leadingInt(strings.TrimLeft(rest, ": \t\n"))
}

// leadingInt parses the digits at the start of s after surrounding space
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(s)
	}
	if end == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	return v, err == nil
}

// flexInt accepts both JSON numbers and numeric strings; CodeChef mixes them
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("flexInt: %w", err)
	}
	*f = flexInt(v)
	return nil
}
