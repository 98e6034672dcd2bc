package cas

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// Codec encodes the persisted cache file.
type Codec interface {
	Name() string
	Marshal(file *domain.CacheFile) ([]byte, error)
	Unmarshal(data []byte, file *domain.CacheFile) error
}

// CodecFor returns the codec registered under name. An empty name selects JSON.
func CodecFor(name string) (Codec, error) {
	switch name {
	case "", domain.CodecJSON:
		return jsonCodec{}, nil
	case domain.CodecMsgpack:
		return msgpackCodec{}, nil
	default:
		return nil, zerr.With(domain.ErrUnknownCodec, "format", name)
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return domain.CodecJSON }

func (jsonCodec) Marshal(file *domain.CacheFile) ([]byte, error) {
	return json.MarshalIndent(file, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte, file *domain.CacheFile) error {
	return json.Unmarshal(data, file)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return domain.CodecMsgpack }

func (msgpackCodec) Marshal(file *domain.CacheFile) ([]byte, error) {
	return msgpack.Marshal(file)
}

func (msgpackCodec) Unmarshal(data []byte, file *domain.CacheFile) error {
	return msgpack.Unmarshal(data, file)
}
