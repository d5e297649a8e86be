package mazev1

import (
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype the mazeio messages travel under.
const CodecName = "mazeio"

// Message is implemented by every mazev1 wire message.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("mazev1 codec: cannot marshal %T", v)
	}
	return m.Marshal()
}

func (codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("mazev1 codec: cannot unmarshal into %T", v)
	}
	return m.Unmarshal(data)
}

func (codec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(codec{})
}

// SessionMetadataKey is the request metadata key a client may set to choose
// its connection identity. Without it the server uses the remote address.
const SessionMetadataKey = "mazeio-session"
