package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chaingateway/internal/apperr"
)

func TestCallToolHappyPath(t *testing.T) {
	d := New(zap.NewNop())
	d.RegisterTool(Schema{
		Name:   "echo",
		Params: []Param{{Name: "message", Type: "string", Required: true}},
	}, func(_ context.Context, args map[string]interface{}) (interface{}, error) {
		return map[string]interface{}{"echoed": args["message"]}, nil
	})

	envelope := d.CallTool(context.Background(), "echo", map[string]interface{}{"message": "hi"})
	require.False(t, envelope.IsError, "expected success, got error envelope: %+v", envelope)
	require.Len(t, envelope.Content, 1)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal([]byte(envelope.Content[0].Text), &decoded))
	assert.Equal(t, "hi", decoded["echoed"])
}

func TestCallToolMissingRequiredParam(t *testing.T) {
	d := New(zap.NewNop())
	d.RegisterTool(Schema{
		Name:   "echo",
		Params: []Param{{Name: "message", Type: "string", Required: true}},
	}, func(context.Context, map[string]interface{}) (interface{}, error) {
		return nil, nil
	})

	envelope := d.CallTool(context.Background(), "echo", map[string]interface{}{})
	assert.True(t, envelope.IsError, "expected error envelope for missing param")
}

func TestCallToolUnknownToolIsUnsupported(t *testing.T) {
	d := New(zap.NewNop())
	envelope := d.CallTool(context.Background(), "does_not_exist", nil)
	assert.True(t, envelope.IsError, "expected error envelope for unknown tool")
}

func TestCallToolPropagatesTypedError(t *testing.T) {
	d := New(zap.NewNop())
	d.RegisterTool(Schema{Name: "fail"}, func(context.Context, map[string]interface{}) (interface{}, error) {
		return nil, apperr.NotFound("lookup", "thing not found")
	})

	envelope := d.CallTool(context.Background(), "fail", map[string]interface{}{})
	require.True(t, envelope.IsError, "expected error envelope")
	assert.Contains(t, envelope.Content[0].Text, "not_found")
}

func TestReadResourceMatchesTemplate(t *testing.T) {
	d := New(zap.NewNop())
	d.RegisterResource(Schema{Name: "balance"}, "chain://{network}/balance/{address}",
		func(_ context.Context, _ string, params map[string]string) (interface{}, error) {
			return map[string]string{"network": params["network"], "address": params["address"]}, nil
		})

	envelope, err := d.ReadResource(context.Background(), "chain://ethereum/balance/0xabc")
	require.NoError(t, err)
	require.Len(t, envelope.Contents, 1)
	assert.Contains(t, envelope.Contents[0].Text, "ethereum")
}

func TestReadResourceNoMatch(t *testing.T) {
	d := New(zap.NewNop())
	d.RegisterResource(Schema{Name: "balance"}, "chain://{network}/balance/{address}",
		func(context.Context, string, map[string]string) (interface{}, error) { return nil, nil })

	_, err := d.ReadResource(context.Background(), "chain://ethereum/gas")
	assert.Error(t, err, "expected error for unmatched uri")
}
