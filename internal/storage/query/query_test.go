package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-tools-hub/internal/storage/filedb"
)

type role string

func tools() []filedb.Record {
	return []filedb.Record{
		{"id": "1", "name": "Physics Wallah", "description": "Video lectures", "category": "VIDEO_LEARNING",
			"features": []any{"Test series", "Doubt solving sessions"}, "platforms": []any{"WEB", "ANDROID", "IOS"},
			"bestFor": []any{"JEE", "NEET"}, "rating": 4.3, "reviewCount": 15420.0},
		{"id": "2", "name": "Notion", "description": "All-in-one workspace", "category": "NOTE_TAKING",
			"features": []any{"Templates"}, "platforms": []any{"WEB", "DESKTOP"},
			"bestFor": []any{"NEET"}, "rating": 4.5, "reviewCount": 45230.0},
		{"id": "3", "name": "Wolfram Alpha", "description": "Computational knowledge engine", "category": "PROBLEM_SOLVING",
			"features": []any{"Graph plotting"}, "platforms": []any{"WEB"},
			"bestFor": []any{"JEE"}, "rating": 4.4, "reviewCount": 23670.0},
	}
}

func ids(records []filedb.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r["id"].(string))
	}
	return out
}

func TestMatch_EmptyQueryMatchesAll(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(tools(), All())))
	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(tools(), nil)))
	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(tools(), And(nil, nil))))
}

func TestMatch_Equals(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{name: "string", q: Equals("category", "NOTE_TAKING"), want: []string{"2"}},
		{name: "named string type", q: Equals("category", role("PROBLEM_SOLVING")), want: []string{"3"}},
		{name: "int against float", q: Equals("reviewCount", 15420), want: []string{"1"}},
		{name: "float", q: Equals("rating", 4.5), want: []string{"2"}},
		{name: "mismatch", q: Equals("category", "note_taking"), want: []string{}},
		{name: "missing field", q: Equals("logo", "x.png"), want: []string{}},
		{name: "missing field equals nil", q: Equals("logo", nil), want: []string{"1", "2", "3"}},
		{name: "array never equal", q: Equals("bestFor", "JEE"), want: []string{}},
		{name: "every key must match", q: And(Equals("category", "NOTE_TAKING"), Equals("name", "Forest")), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(tools(), tt.q)))
		})
	}
}

func TestMatch_ArrayContainsAny(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{name: "bestFor JEE", q: ArrayContainsAny("bestFor", "JEE"), want: []string{"1", "3"}},
		{name: "bestFor NEET", q: ArrayContainsAny("bestFor", "NEET"), want: []string{"1", "2"}},
		{name: "any of candidates", q: ArrayContainsAny("platforms", "DESKTOP", "IOS"), want: []string{"1", "2"}},
		{name: "no candidates", q: ArrayContainsAny("platforms"), want: []string{}},
		{name: "scalar field treated as one element", q: ArrayContainsAny("category", "NOTE_TAKING", "X"), want: []string{"2"}},
		{name: "missing field", q: ArrayContainsAny("tags", "JEE"), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(tools(), tt.q)))
		})
	}
}

func TestMatch_RegexAndOr(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{name: "case insensitive name", q: MustRegex("name", "notion", "i"), want: []string{"2"}},
		{name: "case sensitive miss", q: MustRegex("name", "notion", ""), want: []string{}},
		{name: "array element", q: MustRegex("features", "plot", "i"), want: []string{"3"}},
		{name: "non string field", q: MustRegex("rating", "4", "i"), want: []string{}},
		{name: "or across fields", q: Or(MustRegex("name", "wallah", "i"), MustRegex("description", "ENGINE", "i")), want: []string{"1", "3"}},
		{name: "empty or", q: Or(), want: []string{}},
		{name: "search helper", q: Search("work", "name", "description", "features"), want: []string{"2"}},
		{name: "search literal metacharacters", q: Search("all-in-one", "description"), want: []string{"2"}},
		{name: "search combined with array filter", q: And(Search("al", "name"), ArrayContainsAny("bestFor", "NEET")), want: []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(tools(), tt.q)))
		})
	}
}

func TestMatch_NestedField(t *testing.T) {
	rec := filedb.Record{"author": map[string]any{"id": "u1", "name": "Riya"}}

	assert.True(t, Match(rec, Equals("author.name", "Riya")))
	assert.False(t, Match(rec, Equals("author.name", "Kabir")))
	assert.False(t, Match(rec, Equals("author.name.first", "Riya")))
}

func TestSearch_PostFields(t *testing.T) {
	post := filedb.Record{
		"title":   "How I revise organic chemistry",
		"content": "Flashcards every evening",
		"tags":    []any{"NEET", "chemistry"},
	}
	q := Search("FLASHCARDS", "title", "content", "tags")
	assert.True(t, Match(post, q))
	assert.True(t, Match(post, Search("Organic", "title", "content", "tags")))
	assert.True(t, Match(post, Search("chem", "tags")))
	assert.False(t, Match(post, Search("physics", "title", "content", "tags")))
}

func TestRegex_Options(t *testing.T) {
	_, err := Regex("name", "abc", "x")
	assert.Error(t, err)

	_, err = Regex("name", "(", "")
	assert.Error(t, err)

	q, err := Regex("name", "^a.b$", "is")
	require.NoError(t, err)
	assert.True(t, Match(filedb.Record{"name": "A\nB"}, q))

	assert.Panics(t, func() { MustRegex("name", "(", "") })
}
