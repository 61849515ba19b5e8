package models

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const MaxTitleLength = 200

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
	ModeHybrid  Mode = "hybrid"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`
	Overview    string             `bson:"overview" json:"overview"`
	Image       string             `bson:"image" json:"image"`
	Venue       string             `bson:"venue" json:"venue"`
	Location    string             `bson:"location" json:"location"`
	Date        string             `bson:"date" json:"date"` // YYYY-MM-DD
	Time        string             `bson:"time" json:"time"` // HH:MM, 24h
	Mode        Mode               `bson:"mode" json:"mode"`
	Audience    string             `bson:"audience" json:"audience"`
	Agenda      []string           `bson:"agenda" json:"agenda"`
	Organizer   string             `bson:"organizer" json:"organizer"`
	Tags        []string           `bson:"tags" json:"tags"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EventSummary is the subset of an event embedded in booking responses.
type EventSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Title    string             `json:"title"`
	Slug     string             `json:"slug"`
	Date     string             `json:"date"`
	Time     string             `json:"time"`
	Location string             `json:"location"`
	Venue    string             `json:"venue"`
	Mode     Mode               `json:"mode"`
}

func (e Event) Summary() EventSummary {
	return EventSummary{
		ID:       e.ID,
		Title:    e.Title,
		Slug:     e.Slug,
		Date:     e.Date,
		Time:     e.Time,
		Location: e.Location,
		Venue:    e.Venue,
		Mode:     e.Mode,
	}
}

// EventChanges marks the fields whose normalization must run on the next write.
type EventChanges struct {
	Title bool
	Date  bool
	Time  bool
}

// AllEventChanges is used for documents that have never been stored.
var AllEventChanges = EventChanges{Title: true, Date: true, Time: true}

// EventPatch is a full or partial event write. Nil fields are left untouched.
type EventPatch struct {
	Title       *string   `json:"title" yaml:"title"`
	Description *string   `json:"description" yaml:"description"`
	Overview    *string   `json:"overview" yaml:"overview"`
	Image       *string   `json:"image" yaml:"image"`
	Venue       *string   `json:"venue" yaml:"venue"`
	Location    *string   `json:"location" yaml:"location"`
	Date        *string   `json:"date" yaml:"date"`
	Time        *string   `json:"time" yaml:"time"`
	Mode        *string   `json:"mode" yaml:"mode"`
	Audience    *string   `json:"audience" yaml:"audience"`
	Agenda      *[]string `json:"agenda" yaml:"agenda"`
	Organizer   *string   `json:"organizer" yaml:"organizer"`
	Tags        *[]string `json:"tags" yaml:"tags"`
}

// Apply copies the set fields of p onto base and reports which normalized
// fields actually changed value.
func (p EventPatch) Apply(base Event) (Event, EventChanges) {
	var ch EventChanges
	e := base
	if p.Title != nil && *p.Title != base.Title {
		e.Title = *p.Title
		ch.Title = true
	}
	if p.Date != nil && *p.Date != base.Date {
		e.Date = *p.Date
		ch.Date = true
	}
	if p.Time != nil && *p.Time != base.Time {
		e.Time = *p.Time
		ch.Time = true
	}
	setString(&e.Description, p.Description)
	setString(&e.Overview, p.Overview)
	setString(&e.Image, p.Image)
	setString(&e.Venue, p.Venue)
	setString(&e.Location, p.Location)
	setString(&e.Audience, p.Audience)
	setString(&e.Organizer, p.Organizer)
	if p.Mode != nil {
		e.Mode = Mode(*p.Mode)
	}
	if p.Agenda != nil {
		e.Agenda = append([]string(nil), (*p.Agenda)...)
	}
	if p.Tags != nil {
		e.Tags = append([]string(nil), (*p.Tags)...)
	}
	return e, ch
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// NormalizeEvent validates e and brings it into its stored form. It must run
// before every insert or update. Slug, date and time are only recomputed for
// the fields flagged in changed; everything else is checked on every call.
func NormalizeEvent(e Event, changed EventChanges) (Event, error) {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Overview = strings.TrimSpace(e.Overview)
	e.Image = strings.TrimSpace(e.Image)
	e.Venue = strings.TrimSpace(e.Venue)
	e.Location = strings.TrimSpace(e.Location)
	e.Date = strings.TrimSpace(e.Date)
	e.Time = strings.TrimSpace(e.Time)
	e.Audience = strings.TrimSpace(e.Audience)
	e.Organizer = strings.TrimSpace(e.Organizer)
	e.Agenda = compact(e.Agenda)
	e.Tags = compact(e.Tags)

	var errs []error
	required := []struct {
		name  string
		value string
	}{
		{"title", e.Title},
		{"description", e.Description},
		{"overview", e.Overview},
		{"image", e.Image},
		{"venue", e.Venue},
		{"location", e.Location},
		{"date", e.Date},
		{"time", e.Time},
		{"mode", string(e.Mode)},
		{"audience", e.Audience},
		{"organizer", e.Organizer},
	}
	for _, f := range required {
		if f.value == "" {
			errs = append(errs, fieldError(f.name, "is required"))
		}
	}
	if len(e.Agenda) == 0 {
		errs = append(errs, fieldError("agenda", "must contain at least one item"))
	}
	if len(e.Tags) == 0 {
		errs = append(errs, fieldError("tags", "must contain at least one tag"))
	}
	if utf8.RuneCountInString(e.Title) > MaxTitleLength {
		errs = append(errs, fieldError("title", fmt.Sprintf("cannot exceed %d characters", MaxTitleLength)))
	}

	if changed.Title && e.Title != "" {
		e.Slug = Slugify(e.Title)
		if e.Slug == "" {
			errs = append(errs, fieldError("title", "must contain at least one letter or digit"))
		}
	}
	e.Slug = strings.ToLower(strings.TrimSpace(e.Slug))

	if changed.Date && e.Date != "" {
		d, err := NormalizeDate(e.Date)
		if err != nil {
			errs = append(errs, err)
		} else {
			e.Date = d
		}
	}
	if changed.Time && e.Time != "" {
		t, err := NormalizeTime(e.Time)
		if err != nil {
			errs = append(errs, err)
		} else {
			e.Time = t
		}
	}
	if e.Mode != "" {
		m, err := ParseMode(string(e.Mode))
		if err != nil {
			errs = append(errs, err)
		} else {
			e.Mode = m
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Event{}, err
	}
	return e, nil
}

func compact(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

var (
	// Whitespace covers Unicode spaces and line separators, not only ASCII.
	nonSlugChars = regexp.MustCompile(`[^\w\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}-]`)
	whitespace   = regexp.MustCompile(`[\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}]+`)
	hyphenRuns   = regexp.MustCompile(`-+`)
	edgeHyphens  = regexp.MustCompile(`^-+|-+$`)
)

// Slugify derives the URL identifier of a title.
func Slugify(title string) string {
	s := strings.TrimSpace(strings.ToLower(title))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return edgeHyphens.ReplaceAllString(s, "")
}

// Accepted input layouts for event dates. Zoned layouts are read in UTC.
var dateLayouts = []string{
	"2006-1-2",
	time.RFC3339Nano,
	"2006-1-2T15:04:05",
	"2006-1-2T15:04",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006/1/2",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"Mon, January 2, 2006",
	"Mon Jan 2 2006",
	time.RFC1123,
	time.RFC1123Z,
	"2006-1",
	"2006",
}

// NormalizeDate parses s and returns its calendar date as YYYY-MM-DD.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.DateOnly), nil
		}
	}
	return "", ErrInvalidDateFormat
}

var (
	time24 = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)
	time12 = regexp.MustCompile(`(?i)^(0?[1-9]|1[0-2]):([0-5][0-9])\s?(AM|PM)$`)
)

// NormalizeTime converts 24-hour or 12-hour-with-meridiem input to HH:MM.
func NormalizeTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if m := time24.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:%s", h, m[2]), nil
	}
	if m := time12.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		switch strings.ToUpper(m[3]) {
		case "PM":
			if h != 12 {
				h += 12
			}
		case "AM":
			if h == 12 {
				h = 0
			}
		}
		return fmt.Sprintf("%02d:%s", h, m[2]), nil
	}
	return "", ErrInvalidTimeFormat
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeOnline, ModeOffline, ModeHybrid:
		return m, nil
	default:
		return "", ErrInvalidMode
	}
}
