package converter

import (
	"net/http"
	"testing"

	"github.com/Zachacious/go-lexspec/internal/lexicon"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }
func i64(v int64) *int64   { return &v }

func TestConvertObject(t *testing.T) {
	def := &lexicon.Def{
		Type:        lexicon.KindObject,
		Description: "A view of a post.",
		Required:    []string{"uri", "author"},
		Nullable:    []string{"reply", "count"},
		Properties: map[string]*lexicon.Def{
			"uri":       {Type: lexicon.KindString, Format: "at-uri"},
			"createdAt": {Type: lexicon.KindString, Format: "datetime"},
			"author":    {Type: lexicon.KindRef, Ref: "app.bsky.actor.defs#profileViewBasic"},
			"reply":     {Type: lexicon.KindRef, Ref: "#replyRef"},
			"count":     {Type: lexicon.KindInteger, Minimum: i64(0)},
			"embed":     {Type: lexicon.KindUnion, Refs: []string{"#b", "#a"}},
			"record":    {Type: lexicon.KindUnknown},
			"cid":       {Type: lexicon.KindCIDLink},
			"image":     {Type: lexicon.KindBlob, Accept: []string{"image/*"}},
			"weird":     {Type: "frobnicator"},
		},
	}

	ref := ConvertObject("app.bsky.feed.defs", "postView", def)
	require.NotNil(t, ref.Value)
	schema := ref.Value

	assert.True(t, schema.Type.Is(openapi3.TypeObject))
	assert.Equal(t, "A view of a post.", schema.Description)
	assert.Equal(t, []string{"uri", "author"}, schema.Required)

	assert.Equal(t, "at-uri", schema.Properties["uri"].Value.Format)
	assert.Equal(t, "date-time", schema.Properties["createdAt"].Value.Format)
	assert.Equal(t, "#/components/schemas/app.bsky.actor.defs.profileViewBasic", schema.Properties["author"].Ref)

	reply := schema.Properties["reply"].Value
	require.NotNil(t, reply)
	require.Len(t, reply.OneOf, 2)
	assert.Equal(t, "#/components/schemas/app.bsky.feed.defs.replyRef", reply.OneOf[0].Ref)
	assert.True(t, reply.OneOf[1].Value.Type.Is("null"))

	count := schema.Properties["count"].Value
	assert.Equal(t, openapi3.Types{"integer", "null"}, *count.Type)
	require.NotNil(t, count.Min)
	assert.Equal(t, float64(0), *count.Min)

	embed := schema.Properties["embed"].Value
	require.Len(t, embed.OneOf, 2)
	assert.Equal(t, "#/components/schemas/app.bsky.feed.defs.a", embed.OneOf[0].Ref)
	assert.Equal(t, "#/components/schemas/app.bsky.feed.defs.b", embed.OneOf[1].Ref)

	assert.Nil(t, schema.Properties["record"].Value.Type)
	assert.Equal(t, []string{"$link"}, schema.Properties["cid"].Value.Required)
	assert.Equal(t, "binary", schema.Properties["image"].Value.Format)
	assert.Contains(t, schema.Properties["weird"].Value.Description, "frobnicator")
}

func TestConvertArray(t *testing.T) {
	ref := ConvertArray("com.example.defs", "tags", &lexicon.Def{
		Type:      lexicon.KindArray,
		MinLength: u64(1),
		MaxLength: u64(8),
		Items:     &lexicon.Def{Type: lexicon.KindString, MaxLength: u64(64)},
	})
	schema := ref.Value
	assert.True(t, schema.Type.Is(openapi3.TypeArray))
	assert.EqualValues(t, 1, schema.MinItems)
	require.NotNil(t, schema.MaxItems)
	assert.EqualValues(t, 8, *schema.MaxItems)
	require.NotNil(t, schema.Items.Value.MaxLength)
	assert.EqualValues(t, 64, *schema.Items.Value.MaxLength)
}

func TestConvertRecord(t *testing.T) {
	ref := ConvertRecord("app.bsky.feed.like", "main", &lexicon.Def{
		Type:        lexicon.KindRecord,
		Description: "Record declaring a 'like' of a piece of subject content.",
		Key:         "tid",
		Record: &lexicon.Def{
			Type:     lexicon.KindObject,
			Required: []string{"subject"},
			Properties: map[string]*lexicon.Def{
				"subject": {Type: lexicon.KindRef, Ref: "com.atproto.repo.strongRef"},
			},
		},
	})
	schema := ref.Value
	assert.True(t, schema.Type.Is(openapi3.TypeObject))
	assert.Equal(t, "Record declaring a 'like' of a piece of subject content.", schema.Description)
	assert.Equal(t, "tid", schema.Extensions["x-record-key"])
	assert.Equal(t, "#/components/schemas/com.atproto.repo.strongRef", schema.Properties["subject"].Ref)
}

func TestConvertString(t *testing.T) {
	ref := ConvertString("com.atproto.label.defs", "labelValue", &lexicon.Def{
		Type:        lexicon.KindString,
		KnownValues: []string{"!hide", "porn"},
	})
	assert.True(t, ref.Value.Type.Is(openapi3.TypeString))
	assert.Equal(t, []string{"!hide", "porn"}, ref.Value.Extensions["x-known-values"])

	constRef := ConvertString("com.example.defs", "fixed", &lexicon.Def{Type: lexicon.KindString, Const: "only"})
	assert.Equal(t, []any{"only"}, constRef.Value.Enum)
}

func TestConvertToken(t *testing.T) {
	ref := ConvertToken("app.bsky.feed.defs", "requestLess", &lexicon.Def{
		Type:        lexicon.KindToken,
		Description: "Request that less content like the given feed item be shown.",
	})
	assert.True(t, ref.Value.Type.Is(openapi3.TypeString))
	assert.Equal(t, []any{"app.bsky.feed.defs#requestLess"}, ref.Value.Enum)
	assert.Equal(t, "Request that less content like the given feed item be shown.", ref.Value.Description)
}

func TestConvertQuery(t *testing.T) {
	def := &lexicon.Def{
		Type:        lexicon.KindQuery,
		Description: "Get a view of an actor's feed. Paginated.\nMore detail here.",
		Parameters: &lexicon.Def{
			Type:     lexicon.KindParams,
			Required: []string{"actor"},
			Properties: map[string]*lexicon.Def{
				"actor": {Type: lexicon.KindString, Format: "at-identifier"},
				"limit": {Type: lexicon.KindInteger, Minimum: i64(1), Maximum: i64(100), Default: float64(50)},
			},
		},
		Output: &lexicon.Body{
			Encoding: "application/json",
			Schema:   &lexicon.Def{Type: lexicon.KindRef, Ref: "#output"},
		},
		Errors: []*lexicon.Error{{Name: "BlockedActor"}, {Name: "InvalidRequest"}},
	}

	op := ConvertQuery("app.bsky.feed.getAuthorFeed", "main", def)
	require.NotNil(t, op)

	assert.Equal(t, "app.bsky.feed.getAuthorFeed", op.OperationID)
	assert.Equal(t, []string{"app.bsky.feed"}, op.Tags)
	assert.Equal(t, "Get a view of an actor's feed.", op.Summary)
	assert.Nil(t, op.RequestBody)

	require.Len(t, op.Parameters, 2)
	assert.Equal(t, "actor", op.Parameters[0].Value.Name)
	assert.Equal(t, openapi3.ParameterInQuery, op.Parameters[0].Value.In)
	assert.True(t, op.Parameters[0].Value.Required)
	assert.Equal(t, "limit", op.Parameters[1].Value.Name)
	assert.False(t, op.Parameters[1].Value.Required)

	ok := op.Responses.Status(http.StatusOK)
	require.NotNil(t, ok)
	assert.Equal(t, "#/components/schemas/app.bsky.feed.getAuthorFeed.output",
		ok.Value.Content.Get("application/json").Schema.Ref)

	bad := op.Responses.Status(http.StatusBadRequest)
	require.NotNil(t, bad)
	errEnum := bad.Value.Content.Get("application/json").Schema.Value.Properties["error"].Value.Enum
	assert.Equal(t, []any{"BlockedActor", "InvalidRequest", "ExpiredToken", "InvalidToken"}, errEnum)
	assert.NotNil(t, op.Responses.Status(http.StatusUnauthorized))

	require.NotNil(t, op.Security)
	require.Len(t, *op.Security, 1)
	assert.Contains(t, (*op.Security)[0], BearerScheme)
}

func TestConvertProcedure(t *testing.T) {
	op := ConvertProcedure("com.atproto.repo.uploadBlob", "main", &lexicon.Def{
		Type:   lexicon.KindProcedure,
		Input:  &lexicon.Body{Encoding: "*/*"},
		Output: &lexicon.Body{Encoding: "application/json", Schema: &lexicon.Def{Type: lexicon.KindObject}},
	})
	require.NotNil(t, op)
	require.NotNil(t, op.RequestBody)
	assert.True(t, op.RequestBody.Value.Required)
	media := op.RequestBody.Value.Content.Get("*/*")
	require.NotNil(t, media)
	assert.Equal(t, "binary", media.Schema.Value.Format)

	noBody := ConvertProcedure("com.example.ping", "main", &lexicon.Def{Type: lexicon.KindProcedure})
	require.NotNil(t, noBody)
	assert.Nil(t, noBody.RequestBody)
	assert.Nil(t, noBody.Responses.Status(http.StatusOK).Value.Content)
}

func TestOperationNotRepresentable(t *testing.T) {
	assert.Nil(t, ConvertQuery("com.example.getThing", "other", &lexicon.Def{Type: lexicon.KindQuery}))
	assert.Nil(t, ConvertProcedure("com.example.doThing", "other", &lexicon.Def{Type: lexicon.KindProcedure}))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Get a thing.", "Get a thing."},
		{"Get a thing. Requires auth.", "Get a thing."},
		{"\n  First line\nsecond line", "First line"},
		{"Version 1.2 of the thing", "Version 1.2 of the thing"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, summarize(tt.in), "summarize(%q)", tt.in)
	}
}

func TestDefault(t *testing.T) {
	set := Default()
	assert.NotNil(t, set.Array)
	assert.NotNil(t, set.Object)
	assert.NotNil(t, set.Record)
	assert.NotNil(t, set.String)
	assert.NotNil(t, set.Token)
	assert.NotNil(t, set.Procedure)
	assert.NotNil(t, set.Query)
}
