package tokenizer

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// PieceType mirrors ModelProto.SentencePiece.Type.
type PieceType int32

// Piece types as numbered in sentencepiece_model.proto.
const (
	PieceNormal      PieceType = 1
	PieceUnknown     PieceType = 2
	PieceControl     PieceType = 3
	PieceUserDefined PieceType = 4
	PieceUnused      PieceType = 5
	PieceByte        PieceType = 6
)

// ModelType mirrors TrainerSpec.ModelType.
type ModelType int32

const (
	ModelUnigram ModelType = 1
	ModelBPE     ModelType = 2
	ModelWord    ModelType = 3
	ModelChar    ModelType = 4
)

// ModelProto field numbers used by the decoder.
const (
	fieldPieces      protowire.Number = 1
	fieldTrainerSpec protowire.Number = 2

	fieldPieceText  protowire.Number = 1
	fieldPieceScore protowire.Number = 2
	fieldPieceType  protowire.Number = 3

	fieldTrainerModelType protowire.Number = 3
)

// Piece represents a vocabulary piece from the model.
type Piece struct {
	Piece string
	Score float32
	Type  PieceType
}

// Model represents a decoded SentencePiece model.
type Model struct {
	Pieces    []Piece
	ModelType ModelType
}

// ParseModel decodes a serialized SentencePiece ModelProto. Only the fields the
// unigram tokenizer needs are read; everything else is skipped.
func ParseModel(data []byte) (*Model, error) {
	if len(data) == 0 {
		return nil, errors.New("parsing protobuf: empty model")
	}

	m := &Model{ModelType: ModelUnigram}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("parsing protobuf: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch {
		case num == fieldPieces && typ == protowire.BytesType:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("parsing piece %d: %w", len(m.Pieces), protowire.ParseError(n))
			}
			p, err := parsePiece(b)
			if err != nil {
				return nil, fmt.Errorf("parsing piece %d: %w", len(m.Pieces), err)
			}
			m.Pieces = append(m.Pieces, p)
			data = data[n:]

		case num == fieldTrainerSpec && typ == protowire.BytesType:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, fmt.Errorf("parsing trainer_spec: %w", protowire.ParseError(n))
			}
			mt, err := parseModelType(b)
			if err != nil {
				return nil, fmt.Errorf("parsing trainer_spec: %w", err)
			}
			m.ModelType = mt
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, fmt.Errorf("parsing field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	if len(m.Pieces) == 0 {
		return nil, errors.New("parsing protobuf: model has no pieces")
	}
	if m.ModelType != ModelUnigram {
		return nil, fmt.Errorf("unsupported model type %d (want unigram)", m.ModelType)
	}
	return m, nil
}

func parsePiece(b []byte) (Piece, error) {
	p := Piece{Type: PieceNormal}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Piece{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == fieldPieceText && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return Piece{}, protowire.ParseError(n)
			}
			p.Piece = v
			b = b[n:]
		case num == fieldPieceScore && typ == protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return Piece{}, protowire.ParseError(n)
			}
			p.Score = math.Float32frombits(v)
			b = b[n:]
		case num == fieldPieceType && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Piece{}, protowire.ParseError(n)
			}
			p.Type = PieceType(v)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Piece{}, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	if p.Piece == "" {
		return Piece{}, errors.New("empty piece")
	}
	return p, nil
}

func parseModelType(b []byte) (ModelType, error) {
	mt := ModelUnigram
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		b = b[n:]
		if num == fieldTrainerModelType && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			mt = ModelType(v)
			b = b[n:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return 0, protowire.ParseError(n)
		}
		b = b[n:]
	}
	return mt, nil
}

// Marshal encodes the model as a ModelProto. The output round-trips through
// ParseModel and is readable by the reference SentencePiece implementation.
func (m *Model) Marshal() []byte {
	var b []byte
	for _, p := range m.Pieces {
		var pb []byte
		pb = protowire.AppendTag(pb, fieldPieceText, protowire.BytesType)
		pb = protowire.AppendString(pb, p.Piece)
		pb = protowire.AppendTag(pb, fieldPieceScore, protowire.Fixed32Type)
		pb = protowire.AppendFixed32(pb, math.Float32bits(p.Score))
		if p.Type != 0 && p.Type != PieceNormal {
			pb = protowire.AppendTag(pb, fieldPieceType, protowire.VarintType)
			pb = protowire.AppendVarint(pb, uint64(p.Type))
		}
		b = protowire.AppendTag(b, fieldPieces, protowire.BytesType)
		b = protowire.AppendBytes(b, pb)
	}

	mt := m.ModelType
	if mt == 0 {
		mt = ModelUnigram
	}
	var ts []byte
	ts = protowire.AppendTag(ts, fieldTrainerModelType, protowire.VarintType)
	ts = protowire.AppendVarint(ts, uint64(mt))
	b = protowire.AppendTag(b, fieldTrainerSpec, protowire.BytesType)
	b = protowire.AppendBytes(b, ts)
	return b
}
