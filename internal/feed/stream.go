package feed

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/Hali-creater/AuraPin/internal/services"
)

// MalformedEntryError reports a single unusable feed entry. It unwraps to
// services.ErrMalformedEntry so callers can skip the entry without aborting
// the stream.
type MalformedEntryError struct {
	Entry  int
	Reason string
}

func (e *MalformedEntryError) Error() string {
	return fmt.Sprintf("malformed feed entry %d: %s", e.Entry, e.Reason)
}

func (e *MalformedEntryError) Unwrap() error {
	return services.ErrMalformedEntry
}

// Stream is a lazy, finite sequence of products parsed from a feed response.
// Next returns io.EOF once the feed is exhausted; a *MalformedEntryError
// return covers exactly one skipped entry and the stream remains readable.
// Any other error means the stream itself broke (truncated body, corrupt
// payload) and is latched: every later call returns the same error.
type Stream struct {
	body  io.Closer
	entry int
	err   error
	next  func() (Product, error)
}

// Next parses and returns the next feed entry.
func (s *Stream) Next() (Product, error) {
	if s.err != nil {
		return Product{}, s.err
	}
	s.entry++
	return s.next()
}

// fail marks the stream unreadable. Mid-read breakage is a transport
// failure, not a skippable entry.
func (s *Stream) fail(operation string, err error) error {
	s.err = services.Wrap(services.ErrFeedUnavailable, "feed", operation, "feed stream broke mid-read", err)
	return s.err
}

// Close releases the underlying feed response.
func (s *Stream) Close() error {
	if s.body == nil {
		return nil
	}
	return s.body.Close()
}

func newStream(body io.ReadCloser, contentType string) (*Stream, error) {
	buffered := bufio.NewReader(body)

	if isJSONFeed(buffered, contentType) {
		return newJSONStream(body, buffered)
	}
	return newCSVStream(body, buffered)
}

func isJSONFeed(buffered *bufio.Reader, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "json") {
		return true
	}
	peek, err := buffered.Peek(64)
	if err != nil && len(peek) == 0 {
		return false
	}
	trimmed := strings.TrimLeft(string(peek), " \t\r\n")
	return strings.HasPrefix(trimmed, "[")
}

// headerAliases maps the column spellings seen across AWIN-style exports to
// the canonical names the CSV record struct declares.
var headerAliases = map[string]string{
	"id":                 "product_id",
	"name":               "product_name",
	"title":              "product_name",
	"search_price":       "price",
	"display_price":      "price",
	"currency_code":      "currency",
	"merchant":           "merchant_name",
	"awin_deep_link":     "aw_deep_link",
	"deep_link":          "aw_deep_link",
	"product_url":        "aw_deep_link",
	"product_image":      "aw_image_url",
	"image_url":          "aw_image_url",
	"merchant_image_url": "aw_image_url",
	"category":           "category_name",
}

type csvRecord struct {
	ID           string `csv:"product_id"`
	Name         string `csv:"product_name"`
	Description  string `csv:"description"`
	Price        string `csv:"price"`
	Currency     string `csv:"currency"`
	Merchant     string `csv:"merchant_name"`
	AffiliateURL string `csv:"aw_deep_link"`
	ImageURL     string `csv:"aw_image_url"`
	Category     string `csv:"category_name"`
}

func newCSVStream(body io.ReadCloser, buffered *bufio.Reader) (*Stream, error) {
	headerLine, err := readLine(buffered)
	if err != nil {
		return nil, fmt.Errorf("read feed header: %w", err)
	}

	// AWIN exports come comma- or tab-separated; sniff from the header.
	delimiter := ','
	if strings.Count(headerLine, "\t") > strings.Count(headerLine, ",") {
		delimiter = '\t'
	}

	normalized := normalizeHeader(headerLine, delimiter)
	reader := csv.NewReader(io.MultiReader(strings.NewReader(normalized+"\n"), buffered))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	unmarshaller, err := gocsv.NewUnmarshaller(reader, csvRecord{})
	if err != nil {
		return nil, fmt.Errorf("parse feed header: %w", err)
	}

	stream := &Stream{body: body}
	stream.next = func() (Product, error) {
		raw, err := unmarshaller.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Product{}, io.EOF
			}
			// Only a row the CSV parser could delimit and reject is
			// skippable; anything else broke the body itself.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return Product{}, &MalformedEntryError{Entry: stream.entry, Reason: err.Error()}
			}
			return Product{}, stream.fail("parse", err)
		}
		record, ok := raw.(csvRecord)
		if !ok {
			return Product{}, &MalformedEntryError{Entry: stream.entry, Reason: "unexpected record type"}
		}
		product := Product{
			ID:           record.ID,
			Name:         record.Name,
			Description:  record.Description,
			Price:        record.Price,
			Currency:     record.Currency,
			Merchant:     record.Merchant,
			AffiliateURL: record.AffiliateURL,
			ImageURL:     record.ImageURL,
			Category:     record.Category,
		}
		product.normalize()
		if missing := product.Validate(); len(missing) > 0 {
			return Product{}, &MalformedEntryError{Entry: stream.entry, Reason: "missing " + strings.Join(missing, ", ")}
		}
		return product, nil
	}
	return stream, nil
}

func newJSONStream(body io.ReadCloser, buffered *bufio.Reader) (*Stream, error) {
	decoder := json.NewDecoder(buffered)
	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("read feed array: %w", err)
	}

	stream := &Stream{body: body}
	stream.next = func() (Product, error) {
		if !decoder.More() {
			// The closing bracket must still be readable; a body that
			// ends without it was cut off in transit.
			if _, err := decoder.Token(); err != nil {
				return Product{}, stream.fail("parse", err)
			}
			stream.err = io.EOF
			return Product{}, io.EOF
		}
		// Decode in two steps: a syntax error leaves the decoder
		// permanently stuck, so it ends the stream, while a well-formed
		// element of the wrong shape only skips that entry.
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return Product{}, stream.fail("parse", err)
		}
		var entry map[string]any
		if err := json.Unmarshal(raw, &entry); err != nil {
			return Product{}, &MalformedEntryError{Entry: stream.entry, Reason: err.Error()}
		}
		product := productFromMap(entry)
		product.normalize()
		if missing := product.Validate(); len(missing) > 0 {
			return Product{}, &MalformedEntryError{Entry: stream.entry, Reason: "missing " + strings.Join(missing, ", ")}
		}
		return product, nil
	}
	return stream, nil
}

func productFromMap(entry map[string]any) Product {
	value := func(canonical string, extra ...string) string {
		keys := append([]string{canonical}, extra...)
		for alias, target := range headerAliases {
			if target == canonical {
				keys = append(keys, alias)
			}
		}
		for _, key := range keys {
			if v, ok := entry[key]; ok {
				if s := stringify(v); s != "" {
					return s
				}
			}
		}
		return ""
	}
	return Product{
		ID:           value("product_id"),
		Name:         value("product_name", "name"),
		Description:  value("description"),
		Price:        value("price"),
		Currency:     value("currency"),
		Merchant:     value("merchant_name"),
		AffiliateURL: value("aw_deep_link", "affiliate_url"),
		ImageURL:     value("aw_image_url", "image_url"),
		Category:     value("category_name"),
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

func normalizeHeader(headerLine string, delimiter rune) string {
	columns := strings.Split(headerLine, string(delimiter))
	for i, column := range columns {
		name := strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(column), `"`)))
		if canonical, ok := headerAliases[name]; ok {
			name = canonical
		}
		columns[i] = name
	}
	return strings.Join(columns, string(delimiter))
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
