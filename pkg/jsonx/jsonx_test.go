package jsonx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/ai-hiring-assessor/pkg/jsonx"
)

func TestExtractObject_PlainJSON(t *testing.T) {
	t.Parallel()

	out, err := jsonx.ExtractObject(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)
}

func TestExtractObject_SurroundingProse(t *testing.T) {
	t.Parallel()

	in := "Sure! Here is the JSON you asked for:\n```json\n{\"score\": 7, \"reasoning\": \"ok\"}\n```\nLet me know if you need anything else."
	out, err := jsonx.ExtractObject(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":7,"reasoning":"ok"}`, out)
}

func TestExtractObject_NestedAndBracesInStrings(t *testing.T) {
	t.Parallel()

	in := `prefix {"outer":{"inner":"has } brace and \" quote"}} suffix`
	out, err := jsonx.ExtractObject(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"outer":{"inner":"has } brace and \" quote"}}`, out)
}

func TestExtractObject_NoObject(t *testing.T) {
	t.Parallel()

	_, err := jsonx.ExtractObject("no json here")
	assert.Error(t, err)
}

func TestExtractArray_Prose(t *testing.T) {
	t.Parallel()

	in := "Questions below.\n[{\"n\":1},{\"n\":2}]\nDone."
	out, err := jsonx.ExtractArray(in)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"n":1},{"n":2}]`, out)
}

func TestUnmarshalObject(t *testing.T) {
	t.Parallel()

	var v struct {
		Score float64 `json:"score"`
	}
	err := jsonx.UnmarshalObject("the result: {\"score\": 8.5}", &v)
	require.NoError(t, err)
	assert.Equal(t, 8.5, v.Score)
}

func TestUnmarshalArray_MalformedPayload(t *testing.T) {
	t.Parallel()

	var v []int
	err := jsonx.UnmarshalArray("[1, 2, oops]", &v)
	assert.Error(t, err)
}
