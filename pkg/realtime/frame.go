package realtime

import (
	"encoding/json"
	"time"

	"github.com/tidwall/gjson"

	"github.com/agentstation/doshii/pkg/constants"
	"github.com/agentstation/doshii/pkg/errors"
)

// pingFrame is the outbound keep-alive frame.
type pingFrame struct {
	Doshii pingBody `json:"doshii"`
}

type pingBody struct {
	Ping    int64  `json:"ping"`
	Version string `json:"version"`
}

// EncodePing builds the keep-alive frame stamped with t.
func EncodePing(t time.Time) []byte {
	// Marshalling a struct of an int64 and a string cannot fail.
	data, _ := json.Marshal(pingFrame{Doshii: pingBody{
		Ping:    t.UnixMilli(),
		Version: constants.ProtocolVersion,
	}})
	return data
}

// DecodeFrame extracts the event and payload from one inbound frame.
//
// A frame whose doshii.pong field is truthy is a keep-alive response and
// decodes to Pong with the whole frame as payload. Any other frame must
// carry emit: [tag, payload, ...] with a string tag; trailing elements are
// ignored. Everything else is a *errors.FrameError.
func DecodeFrame(data []byte) (EventType, json.RawMessage, error) {
	if !gjson.ValidBytes(data) {
		return "", nil, errors.NewFrameError("invalid JSON", data)
	}
	frame := gjson.ParseBytes(data)
	if !frame.IsObject() {
		return "", nil, errors.NewFrameError("frame is not an object", data)
	}

	if truthy(frame.Get("doshii.pong")) {
		return Pong, json.RawMessage(data), nil
	}

	emit := frame.Get("emit")
	if !emit.Exists() {
		return "", nil, errors.NewFrameError("missing emit", data)
	}
	if !emit.IsArray() {
		return "", nil, errors.NewFrameError("emit is not an array", data)
	}
	parts := emit.Array()
	if len(parts) < 2 {
		return "", nil, errors.NewFrameError("emit needs a tag and a payload", data)
	}
	if parts[0].Type != gjson.String {
		return "", nil, errors.NewFrameError("emit tag is not a string", data)
	}
	return EventType(parts[0].Str), json.RawMessage(parts[1].Raw), nil
}

// truthy follows JSON-value truthiness: false, null, 0 and "" are false.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True, gjson.JSON:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	default:
		return false
	}
}
