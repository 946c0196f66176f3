// Package parser extracts Wordle results from Telegram chat-export HTML.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/pable/wordle-stats/internal/model"
)

// Reasons a block yields no record. None of them are fatal.
var (
	ErrNoBody    = errors.New("block has no text")
	ErrNoMention = errors.New("no wordle mention")
	ErrNoAuthor  = errors.New("no author seen yet")
	ErrBadDate   = errors.New("unparseable date")
)

// ErrNotUTF8 marks an export page that is not valid UTF-8. It aborts the run.
var ErrNotUTF8 = errors.New("document is not valid UTF-8")

var (
	mentionRe = regexp.MustCompile(`Wordle (\d[\d,]*) ([1-6X])/6`)
	viaRe     = regexp.MustCompile(`\s+via\s+@\w+`)
)

// dateLayout matches the leading part of a title like "26.08.2023 08:38:51 UTC+01:00".
const dateLayout = "02.01.2006"

// Block is one message div from an export page.
type Block struct {
	Author    string // raw from_name text, empty when the message has none
	Body      string
	HasBody   bool
	Timestamp string // title attribute of the details div
}

// State carries parse state across the blocks of one document.
// Telegram omits from_name on consecutive messages by the same sender,
// so the last seen author applies until a new one appears.
type State struct {
	Author string
}

// Mention is a parsed "Wordle <n> <a>/6" fragment.
type Mention struct {
	PuzzleNumber int
	Attempts     model.Attempts
}

// ParseMention finds the first Wordle result in text.
func ParseMention(text string) (Mention, error) {
	m := mentionRe.FindStringSubmatch(text)
	if m == nil {
		return Mention{}, ErrNoMention
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n < 1 {
		return Mention{}, fmt.Errorf("%w: puzzle %q", ErrNoMention, m[1])
	}
	a, err := model.ParseAttempts(m[2])
	if err != nil {
		return Mention{}, fmt.Errorf("%w: %v", ErrNoMention, err)
	}
	return Mention{PuzzleNumber: n, Attempts: a}, nil
}

// ParseDate reads the DD.MM.YYYY prefix of a message timestamp and ignores the rest.
func ParseDate(title string) (time.Time, error) {
	title = strings.TrimSpace(title)
	if len(title) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, title)
	}
	d, err := time.Parse(dateLayout, title[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadDate, err)
	}
	return d, nil
}

// NormalizePlayer strips the "via @bot" suffix Telegram adds to inline-bot posts.
func NormalizePlayer(name string) string {
	return strings.TrimSpace(viaRe.ReplaceAllString(strings.TrimSpace(name), ""))
}

// ExtractBlock applies one block to state. It returns the updated state and,
// when the block holds a usable result, the record. A non-nil error is one of
// the skip reasons above.
func ExtractBlock(st State, b Block) (State, model.ResultRecord, error) {
	if b.Author != "" {
		if name := NormalizePlayer(b.Author); name != "" {
			st.Author = name
		}
	}
	if !b.HasBody {
		return st, model.ResultRecord{}, ErrNoBody
	}
	m, err := ParseMention(b.Body)
	if err != nil {
		return st, model.ResultRecord{}, err
	}
	if st.Author == "" {
		return st, model.ResultRecord{}, ErrNoAuthor
	}
	date, err := ParseDate(b.Timestamp)
	if err != nil {
		return st, model.ResultRecord{}, err
	}
	rec, err := model.NewResultRecord(st.Author, m.PuzzleNumber, m.Attempts, date)
	if err != nil {
		return st, model.ResultRecord{}, fmt.Errorf("%w: %v", ErrNoMention, err)
	}
	return st, rec, nil
}

// Stats counts what one extraction run saw.
type Stats struct {
	Files         int
	Blocks        int
	Mentions      int
	Records       int
	SkippedAuthor int
	SkippedDate   int
}

// Extractor turns export documents into result records.
type Extractor struct {
	log   *slog.Logger
	Stats Stats
}

// NewExtractor returns an Extractor logging to logger (slog.Default when nil).
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{log: logger}
}

// ExtractGlob processes every file matching pattern in lexicographic order.
// Any unreadable file aborts the run.
func (e *Extractor) ExtractGlob(pattern string) ([]model.ResultRecord, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	sort.Strings(paths)

	var out []model.ResultRecord
	for _, p := range paths {
		recs, err := e.ExtractFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// ExtractFile opens, parses and closes a single export page.
func (e *Extractor) ExtractFile(path string) ([]model.ResultRecord, error) {
	e.log.Info("processing", "file", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	recs, err := e.ExtractDocument(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	e.Stats.Files++
	return recs, nil
}

// ExtractDocument reads one HTML document. Author state does not carry over
// between documents.
func (e *Extractor) ExtractDocument(r io.Reader) ([]model.ResultRecord, error) {
	blocks, err := ParseBlocks(r)
	if err != nil {
		return nil, err
	}

	var (
		st  State
		out []model.ResultRecord
	)
	for i, b := range blocks {
		e.Stats.Blocks++
		var rec model.ResultRecord
		st, rec, err = ExtractBlock(st, b)
		switch {
		case err == nil:
			e.Stats.Mentions++
			e.Stats.Records++
			out = append(out, rec)
		case errors.Is(err, ErrNoAuthor):
			e.Stats.Mentions++
			e.Stats.SkippedAuthor++
			e.log.Debug("skip block", "index", i, "reason", err)
		case errors.Is(err, ErrBadDate):
			e.Stats.Mentions++
			e.Stats.SkippedDate++
			e.log.Debug("skip block", "index", i, "reason", err, "title", b.Timestamp)
		}
	}
	return out, nil
}

// ParseBlocks returns the message blocks of an export page in document order.
func ParseBlocks(r io.Reader) ([]Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, ErrNotUTF8
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []Block
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if isDiv(n, "message") {
			blocks = append(blocks, readBlock(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return blocks, nil
}

func readBlock(msg *html.Node) Block {
	var b Block
	if n := findDiv(msg, "from_name", nil); n != nil {
		b.Author = strings.TrimSpace(textContent(n))
	}
	if n := findDiv(msg, "text", nil); n != nil {
		b.Body = textContent(n)
		b.HasBody = true
	}
	hasTitle := func(n *html.Node) bool {
		_, ok := attr(n, "title")
		return ok
	}
	if n := findDiv(msg, "details", hasTitle); n != nil {
		b.Timestamp, _ = attr(n, "title")
	}
	return b
}

// findDiv returns the first descendant div carrying class, optionally
// filtered by keep.
func findDiv(root *html.Node, class string, keep func(*html.Node) bool) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if isDiv(c, class) && (keep == nil || keep(c)) {
			return c
		}
		if n := findDiv(c, class, keep); n != nil {
			return n
		}
	}
	return nil
}

func isDiv(n *html.Node, class string) bool {
	if n.Type != html.ElementNode || n.Data != "div" {
		return false
	}
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
