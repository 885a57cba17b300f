package imagedit

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Result is the model's output. At least one of ImageURL/Text is set
// on success; absence of both is a domain failure, not a transport
// failure.
type Result struct {
	ImageURL          string
	Text              string
	SecondaryImageURL string
}

// EmptyKind refines why a response produced no usable output.
type EmptyKind string

const (
	// EmptyBlockedSafety: the model refused on safety grounds.
	EmptyBlockedSafety EmptyKind = "ContentBlockedSafety"

	// EmptyContentFiltered: a content filter suppressed the output.
	EmptyContentFiltered EmptyKind = "ContentFiltered"

	// EmptyNoOutput: the model simply produced nothing usable.
	EmptyNoOutput EmptyKind = "NoOutputProduced"
)

// EmptyResponseError reports a well-formed model response that carried
// neither an image nor text.
type EmptyResponseError struct {
	Kind EmptyKind
}

func (e *EmptyResponseError) Error() string {
	switch e.Kind {
	case EmptyBlockedSafety:
		return "the request was blocked for safety reasons; modify the prompt or image"
	case EmptyContentFiltered:
		return "the content was filtered; try a different prompt or image"
	default:
		return "the model did not return an image or text; try a different image or prompt"
	}
}

// IsEmptyResponse reports whether err is an empty-response failure,
// returning its refinement.
func IsEmptyResponse(err error) (EmptyKind, bool) {
	var emptyErr *EmptyResponseError
	if errors.As(err, &emptyErr) {
		return emptyErr.Kind, true
	}
	return "", false
}

// APIError is a structured error the model endpoint embeds in a
// response body.
type APIError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	switch {
	case e.Status == "rate_limit_exceeded":
		return "rate limit exceeded; wait a moment before trying again"
	case e.Status == "insufficient_quota":
		return "insufficient quota; check the account balance"
	case e.Status == "internal_server_error" || e.Code == 500:
		return "the server reported an unexpected error; try again in a few moments"
	case e.Message != "":
		return e.Message
	default:
		return "the API reported an error"
	}
}

// chatResponse mirrors the model endpoint's success body.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
			Images  []struct {
				Type     string `json:"type"`
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"images"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// ParseResult extracts the produced image and text from a model
// response body. A response with neither fails with an
// EmptyResponseError refined by the finish_reason hint.
func ParseResult(body []byte) (*Result, error) {
	var errWrapper struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &errWrapper); err == nil && errWrapper.Error != nil {
		return nil, errWrapper.Error
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	result := &Result{}
	finishReason := ""
	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		finishReason = choice.FinishReason
		result.Text = choice.Message.Content
		for _, image := range choice.Message.Images {
			if image.Type != "image_url" || image.ImageURL.URL == "" {
				continue
			}
			if result.ImageURL == "" {
				result.ImageURL = image.ImageURL.URL
				continue
			}
			result.SecondaryImageURL = image.ImageURL.URL
			break
		}
	}

	if result.ImageURL == "" && result.Text == "" {
		switch finishReason {
		case "safety":
			return nil, &EmptyResponseError{Kind: EmptyBlockedSafety}
		case "content_filter":
			return nil, &EmptyResponseError{Kind: EmptyContentFiltered}
		default:
			return nil, &EmptyResponseError{Kind: EmptyNoOutput}
		}
	}
	return result, nil
}
