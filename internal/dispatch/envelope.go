// Package dispatch implements the tool/resource dispatcher (C8): the
// closed set of callable tools and readable resources, request
// validation against each tool's schema, typed-error classification into
// the wire envelope, and per-call correlation ids for logging.
package dispatch

import (
	"encoding/json"

	"chaingateway/internal/apperr"
)

// ContentBlock is one unit of a tool response body (spec §6.2).
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolEnvelope is the wire shape every tool call returns.
type ToolEnvelope struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// ResourceContent is one unit of a resource read response body.
type ResourceContent struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

// ResourceEnvelope is the wire shape every resource read returns.
type ResourceEnvelope struct {
	Contents []ResourceContent `json:"contents"`
}

// textEnvelope wraps a single JSON-encodable payload into a ToolEnvelope.
func textEnvelope(payload interface{}) (ToolEnvelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return ToolEnvelope{}, err
	}
	return ToolEnvelope{Content: []ContentBlock{{Type: "text", Text: string(raw)}}}, nil
}

// errEnvelope classifies err into the typed taxonomy and renders a
// client-safe message; upstream causes are never echoed back (spec
// §6.2 "never leak raw upstream error text").
func errEnvelope(err error) ToolEnvelope {
	if appErr, ok := apperr.As(err); ok {
		msg := appErr.Error()
		if appErr.Kind == apperr.KindUpstream {
			msg = "upstream request failed: " + appErr.Step
		}
		return ToolEnvelope{
			Content: []ContentBlock{{Type: "text", Text: `{"error":"` + jsonEscape(msg) + `","kind":"` + appErr.Kind.String() + `"}`}},
			IsError: true,
		}
	}
	return ToolEnvelope{
		Content: []ContentBlock{{Type: "text", Text: `{"error":"internal error","kind":"logic"}`}},
		IsError: true,
	}
}

func jsonEscape(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw[1 : len(raw)-1])
}
