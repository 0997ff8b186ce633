package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Problem is a decoded RFC 7807 response body
type Problem map[string]any

// Code returns the error_code extension
func (p Problem) Code() string {
	code, _ := p["error_code"].(string)
	return code
}

// Detail returns the detail member
func (p Problem) Detail() string {
	detail, _ := p["detail"].(string)
	return detail
}

// JSONRequest builds a request with body marshalled as JSON
func JSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DecodeJSON unmarshals the recorder body into v
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), "body: %s", rec.Body.String())
}

// DecodeProblem checks the media type and decodes an RFC 7807 body
func DecodeProblem(t *testing.T, rec *httptest.ResponseRecorder) Problem {
	t.Helper()
	require.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "application/problem+json"),
		"unexpected content type %q", rec.Header().Get("Content-Type"))

	var p Problem
	DecodeJSON(t, rec, &p)
	return p
}
