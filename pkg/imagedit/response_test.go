package imagedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResultImageAndText(t *testing.T) {
	body := []byte(`{
		"choices": [{
			"message": {
				"content": "here you go",
				"images": [{"type": "image_url", "image_url": {"url": "data:image/png;base64,AAAA"}}]
			},
			"finish_reason": "stop"
		}]
	}`)

	result, err := ParseResult(body)
	require.NoError(t, err)
	assert.Equal(t, "here you go", result.Text)
	assert.Equal(t, "data:image/png;base64,AAAA", result.ImageURL)
}

func TestParseResultTextOnly(t *testing.T) {
	body := []byte(`{"choices":[{"message":{"content":"no image, sorry"}}]}`)

	result, err := ParseResult(body)
	require.NoError(t, err)
	assert.Equal(t, "no image, sorry", result.Text)
	assert.Empty(t, result.ImageURL)
}

func TestParseResultEmptySafety(t *testing.T) {
	body := []byte(`{"choices":[{"message":{},"finish_reason":"safety"}]}`)

	_, err := ParseResult(body)
	require.Error(t, err)
	kind, ok := IsEmptyResponse(err)
	require.True(t, ok)
	assert.Equal(t, EmptyBlockedSafety, kind)
}

func TestParseResultEmptyContentFilter(t *testing.T) {
	body := []byte(`{"choices":[{"message":{},"finish_reason":"content_filter"}]}`)

	_, err := ParseResult(body)
	kind, ok := IsEmptyResponse(err)
	require.True(t, ok)
	assert.Equal(t, EmptyContentFiltered, kind)
}

func TestParseResultEmptyGeneric(t *testing.T) {
	_, err := ParseResult([]byte(`{"choices":[]}`))
	kind, ok := IsEmptyResponse(err)
	require.True(t, ok)
	assert.Equal(t, EmptyNoOutput, kind)
}

func TestParseResultSkipsNonImageEntries(t *testing.T) {
	body := []byte(`{
		"choices": [{
			"message": {
				"images": [
					{"type": "other", "image_url": {"url": "ignored"}},
					{"type": "image_url", "image_url": {"url": "kept"}}
				]
			}
		}]
	}`)

	result, err := ParseResult(body)
	require.NoError(t, err)
	assert.Equal(t, "kept", result.ImageURL)
}

func TestParseResultSecondaryImage(t *testing.T) {
	body := []byte(`{
		"choices": [{
			"message": {
				"images": [
					{"type": "image_url", "image_url": {"url": "first"}},
					{"type": "image_url", "image_url": {"url": "second"}}
				]
			}
		}]
	}`)

	result, err := ParseResult(body)
	require.NoError(t, err)
	assert.Equal(t, "first", result.ImageURL)
	assert.Equal(t, "second", result.SecondaryImageURL)
}

func TestParseResultAPIError(t *testing.T) {
	body := []byte(`{"error":{"status":"rate_limit_exceeded","message":"slow down"}}`)

	_, err := ParseResult(body)
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "rate limit")
}

func TestParseResultAPIErrorServer(t *testing.T) {
	body := []byte(`{"error":{"code":500,"message":"internal"}}`)

	_, err := ParseResult(body)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Error(), "try again")
}

func TestParseResultMalformed(t *testing.T) {
	_, err := ParseResult([]byte(`<html>`))
	require.Error(t, err)
	_, ok := IsEmptyResponse(err)
	assert.False(t, ok, "parse failures are not empty-response failures")
}
