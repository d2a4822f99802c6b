package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alkief/pacmen/game"
)

var (
	ErrEmptyType    = errors.New("protocol: envelope without type")
	ErrEmptyPayload = errors.New("protocol: empty payload")
	ErrEmptyFrame   = errors.New("protocol: empty frame")
)

// Encode 编码为带类型的信封
func Encode(t string, payload any) ([]byte, error) {
	return EncodeFrom(t, "", payload)
}

// EncodeFrom 同 Encode，并标注发送者
func EncodeFrom(t, from string, payload any) ([]byte, error) {
	if t == "" {
		return nil, ErrEmptyType
	}
	if payload == nil {
		return nil, ErrEmptyPayload
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s payload: %w", t, err)
	}
	return json.Marshal(Envelope{T: t, From: from, P: pb})
}

// DecodeEnvelope 只解析外层
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	if e.T == "" {
		return Envelope{}, ErrEmptyType
	}
	return e, nil
}

// DecodePayload 解析信封负载
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, fmt.Errorf("%w for type %q", ErrEmptyPayload, env.T)
	}
	if err := json.Unmarshal(env.P, &out); err != nil {
		return out, fmt.Errorf("protocol: decode %s payload: %w", env.T, err)
	}
	return out, nil
}

// Validate 中继前的入口校验：状态消息必须带 id
func Validate(env Envelope) error {
	switch env.T {
	case MsgState:
		st, err := DecodePayload[State](env)
		if err != nil {
			return err
		}
		if st.ID == "" {
			return game.ErrMissingID
		}
	case MsgActorEliminated:
		ev, err := DecodePayload[ActorEliminated](env)
		if err != nil {
			return err
		}
		if ev.EliminatingID == "" || ev.TargetID == "" {
			return game.ErrMissingID
		}
	case MsgItemConsumed:
		if _, err := DecodePayload[ItemConsumed](env); err != nil {
			return err
		}
	default:
		return fmt.Errorf("protocol: unexpected message type %q", env.T)
	}
	return nil
}
