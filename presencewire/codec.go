package presencewire

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

var (
	msgpackHandle codec.MsgpackHandle
	jsonHandle    codec.JsonHandle
)

func marshalMsgpack(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	err := codec.NewEncoder(&buf, &msgpackHandle).Encode(v)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalMsgpack(p []byte, v interface{}) error {
	return codec.NewDecoder(bytes.NewReader(p), &msgpackHandle).Decode(v)
}

func marshalJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	err := codec.NewEncoder(&buf, &jsonHandle).Encode(v)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalJSON(p []byte, v interface{}) error {
	return codec.NewDecoder(bytes.NewReader(p), &jsonHandle).Decode(v)
}
